// Package memory implements an in-process Adapter.
//
// Threads are plain slices of replies guarded by a mutex. Reply ids are
// UUIDv7 strings unless an IDGenerator is supplied. The adapter backs
// tests, the conformance harness and the "memory" platform of the CLI.
package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

// Clock supplies reply timestamps in epoch milliseconds.
type Clock interface {
	NowMillis() int64
}

// IDGenerator supplies reply ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces time-ordered UUIDv7 ids.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type wallClock struct{}

func (wallClock) NowMillis() int64 { return time.Now().UnixMilli() }

// Option configures an Adapter.
type Option func(*Adapter)

// WithClock sets the clock used to stamp posted replies.
func WithClock(c Clock) Option {
	return func(a *Adapter) { a.clock = c }
}

// WithIDGenerator sets the reply id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Adapter) { a.ids = g }
}

// WithAuthor sets the author id of posted replies.
func WithAuthor(author string) Option {
	return func(a *Adapter) { a.author = author }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithMetrics sets the adapter counters.
func WithMetrics(m *adapter.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// DefaultAuthor is the author of replies posted through the adapter.
const DefaultAuthor = "memory"

// Adapter is a goroutine-safe in-memory reply store.
type Adapter struct {
	mu      sync.Mutex
	threads map[string][]ir.ReplyRecord

	clock   Clock
	ids     IDGenerator
	author  string
	logger  *slog.Logger
	metrics *adapter.Metrics
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an empty memory adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		threads: make(map[string][]ir.ReplyRecord),
		clock:   wallClock{},
		ids:     UUIDv7Generator{},
		author:  DefaultAuthor,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Seed appends records to threadID as they are, without validation.
func (a *Adapter) Seed(threadID string, records ...ir.ReplyRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threads[threadID] = append(a.threads[threadID], records...)
}

// Replies returns a copy of threadID's replies in insertion order.
func (a *Adapter) Replies(threadID string) []ir.ReplyRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.threads[threadID])
}

// FetchReplies returns a copy of threadID's replies. Unknown threads have
// no replies.
func (a *Adapter) FetchReplies(ctx context.Context, threadID string) ([]ir.ReplyRecord, error) {
	if err := ctx.Err(); err != nil {
		e := adapter.WrapError(adapter.PlatformMemory, adapter.OpFetch, adapter.KindTransport, err, "context done")
		a.metrics.ObserveRequest(adapter.PlatformMemory, adapter.OpFetch, e)
		return nil, e
	}

	records := a.Replies(threadID)
	if records == nil {
		records = []ir.ReplyRecord{}
	}
	a.metrics.ObserveRequest(adapter.PlatformMemory, adapter.OpFetch, nil)
	a.metrics.ObservePage(adapter.PlatformMemory)
	return records, nil
}

// PostReply appends text as a new reply to threadID.
func (a *Adapter) PostReply(ctx context.Context, threadID, text string) (ir.AppendResult, error) {
	if err := ctx.Err(); err != nil {
		e := adapter.WrapError(adapter.PlatformMemory, adapter.OpPost, adapter.KindTransport, err, "context done")
		a.metrics.ObserveRequest(adapter.PlatformMemory, adapter.OpPost, e)
		return ir.AppendResult{}, e
	}

	a.mu.Lock()
	rec := ir.ReplyRecord{
		ReplyID:   a.ids.Generate(),
		AuthorID:  a.author,
		Text:      text,
		CreatedAt: a.clock.NowMillis(),
	}
	a.threads[threadID] = append(a.threads[threadID], rec)
	a.mu.Unlock()

	a.metrics.ObserveRequest(adapter.PlatformMemory, adapter.OpPost, nil)
	a.logger.Debug("reply posted",
		slog.String("platform", adapter.PlatformMemory),
		slog.String("thread", threadID),
		slog.String("reply_id", rec.ReplyID),
	)
	return ir.AppendResult{ReplyID: rec.ReplyID}, nil
}
