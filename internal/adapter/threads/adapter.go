// Package threads implements the Adapter for Threads' internal GraphQL API.
//
// The API is undocumented and changes without notice. Requests are
// form-encoded POSTs; responses come in one of three shapes, all of which
// are normalized here.
package threads

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

// Option configures an Adapter.
type Option func(*options)

type options struct {
	client  *http.Client
	logger  *slog.Logger
	metrics *adapter.Metrics
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the adapter counters.
func WithMetrics(m *adapter.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Adapter reads and posts Threads replies.
type Adapter struct {
	cfg       Config
	transport *adapter.Transport
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates a Threads adapter.
func New(cfg Config, opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Adapter{
		cfg:       cfg,
		transport: adapter.NewTransport(adapter.PlatformThreads, o.client, o.logger, o.metrics),
	}
}

// FetchReplies returns every reply to the media threadID.
func (a *Adapter) FetchReplies(ctx context.Context, threadID string) ([]ir.ReplyRecord, error) {
	collector := adapter.NewCollector(adapter.PlatformThreads, a.transport.Logger(), a.transport.Metrics())
	seen := make(map[string]bool)
	cursor := ""

	for page := 1; ; page++ {
		body, err := a.cfg.readBody(threadID, cursor)
		if err != nil {
			return nil, adapter.WrapError(adapter.PlatformThreads, adapter.OpFetch, adapter.KindConfig, err, "build read request")
		}

		var resp readResponse
		if err := a.transport.DoJSON(ctx, adapter.OpFetch, adapter.Request{
			Method: http.MethodPost,
			URL:    a.cfg.endpoint(),
			Header: a.cfg.headers(a.cfg.ReadRequestBody != ""),
			Body:   []byte(body),
		}, &resp); err != nil {
			return nil, err
		}
		a.transport.Metrics().ObservePage(adapter.PlatformThreads)

		if len(resp.Errors) > 0 {
			return nil, adapter.NewError(adapter.PlatformThreads, adapter.OpFetch, adapter.KindUpstream,
				"Threads API returned errors: %s", joinErrors(resp.Errors))
		}

		info := collectPage(resp, collector, a.cfg.IncludeRoot)
		if info == nil || !info.HasNextPage || info.EndCursor == "" || seen[info.EndCursor] {
			break
		}
		if page >= a.cfg.maxPages() {
			return nil, adapter.NewError(adapter.PlatformThreads, adapter.OpFetch, adapter.KindPagination,
				"thread %s has more than %d reply pages; raise max_pages", threadID, a.cfg.maxPages())
		}
		seen[info.EndCursor] = true
		cursor = info.EndCursor
	}

	records, err := collector.Result()
	if err != nil {
		return nil, err
	}
	a.transport.Logger().Debug("replies fetched",
		slog.String("platform", adapter.PlatformThreads),
		slog.String("thread", threadID),
		slog.Int("replies", len(records)),
	)
	return records, nil
}

// PostReply posts text as a reply to the media threadID.
func (a *Adapter) PostReply(ctx context.Context, threadID, text string) (ir.AppendResult, error) {
	body, err := a.cfg.writeBody(threadID, text)
	if err != nil {
		return ir.AppendResult{}, adapter.WrapError(adapter.PlatformThreads, adapter.OpPost, adapter.KindConfig, err, "build write request")
	}

	var resp postResponse
	if err := a.transport.DoJSON(ctx, adapter.OpPost, adapter.Request{
		Method: http.MethodPost,
		URL:    a.cfg.endpoint(),
		Header: a.cfg.headers(a.cfg.WriteRequestBody != ""),
		Body:   []byte(body),
	}, &resp); err != nil {
		return ir.AppendResult{}, err
	}

	if len(resp.Errors) > 0 {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformThreads, adapter.OpPost, adapter.KindUpstream,
			"Threads API error posting reply: %s", joinErrors(resp.Errors))
	}

	id := postedReplyID(resp)
	if id == "" {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformThreads, adapter.OpPost, adapter.KindNoResultID,
			"response did not contain a reply id; the post may have failed")
	}
	return ir.AppendResult{ReplyID: id}, nil
}
