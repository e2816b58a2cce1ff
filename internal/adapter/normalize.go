package adapter

import (
	"log/slog"

	"github.com/roach88/replydb/internal/ir"
)

// Collector accumulates normalized replies across pages and tracks how
// many candidate items were dropped.
type Collector struct {
	platform   string
	logger     *slog.Logger
	metrics    *Metrics
	records    []ir.ReplyRecord
	candidates int
	dropped    int
}

// NewCollector creates a collector for one FetchReplies call.
func NewCollector(platform string, logger *slog.Logger, metrics *Metrics) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{platform: platform, logger: logger, metrics: metrics, records: []ir.ReplyRecord{}}
}

// Add records one candidate item. ok is false when normalization failed;
// reason is logged at debug level.
func (c *Collector) Add(rec ir.ReplyRecord, ok bool, reason string) {
	c.candidates++
	if !ok {
		c.dropped++
		c.logger.Debug("reply dropped",
			slog.String("platform", c.platform),
			slog.String("reply_id", rec.ReplyID),
			slog.String("reason", reason),
		)
		return
	}
	c.records = append(c.records, rec)
}

// Result returns the collected replies. If there were candidates and all
// of them were dropped, it returns a KindNormalization error.
func (c *Collector) Result() ([]ir.ReplyRecord, error) {
	c.metrics.ObserveDropped(c.platform, c.dropped)
	if c.candidates > 0 && len(c.records) == 0 {
		return nil, NewError(c.platform, OpFetch, KindNormalization,
			"all %d reply items failed normalization", c.candidates)
	}
	return c.records, nil
}
