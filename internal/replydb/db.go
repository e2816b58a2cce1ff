// Package replydb is the store façade: a database whose writes are replies.
//
// A DB binds one Adapter to one thread. Append serializes an event and
// posts it as a reply; Read fetches every reply and replays them into a
// fresh store. Nothing is cached between calls, so a Read always reflects
// the thread as the platform returns it.
package replydb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/engine"
	"github.com/roach88/replydb/internal/ir"
)

var (
	// ErrNoAdapter is returned by New when Config.Adapter is nil.
	ErrNoAdapter = errors.New("replydb: adapter is required")

	// ErrNoThreadID is returned by New when Config.ThreadID is empty.
	ErrNoThreadID = errors.New("replydb: thread id is required")
)

// Config configures a DB.
type Config struct {
	Adapter  adapter.Adapter
	ThreadID string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DB reads and writes one thread. Safe for concurrent use if the adapter
// is.
type DB struct {
	adapter  adapter.Adapter
	threadID string
	logger   *slog.Logger
}

// New creates a DB.
func New(cfg Config) (*DB, error) {
	if cfg.Adapter == nil {
		return nil, ErrNoAdapter
	}
	if cfg.ThreadID == "" {
		return nil, ErrNoThreadID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{adapter: cfg.Adapter, threadID: cfg.ThreadID, logger: logger}, nil
}

// ThreadID returns the thread this DB is bound to.
func (db *DB) ThreadID() string {
	return db.threadID
}

// Append posts ev as a reply. V is forced to the current envelope
// version; nothing else is validated.
func (db *DB) Append(ctx context.Context, ev ir.Event) (ir.AppendResult, error) {
	ev.V = ir.EventVersion
	text, err := ir.EncodeEvent(ev)
	if err != nil {
		return ir.AppendResult{}, fmt.Errorf("append: %w", err)
	}

	res, err := db.adapter.PostReply(ctx, db.threadID, string(text))
	if err != nil {
		return ir.AppendResult{}, fmt.Errorf("append to thread %s: %w", db.threadID, err)
	}

	db.logger.Debug("event appended",
		slog.String("thread", db.threadID),
		slog.String("op", string(ev.Op)),
		slog.String("reply_id", res.ReplyID),
	)
	return ir.AppendResult{ReplyID: res.ReplyID}, nil
}

// Read fetches every reply and replays them.
func (db *DB) Read(ctx context.Context) (ir.ReplayResult, error) {
	replies, err := db.adapter.FetchReplies(ctx, db.threadID)
	if err != nil {
		return ir.ReplayResult{}, fmt.Errorf("read thread %s: %w", db.threadID, err)
	}

	result := engine.Replay(replies)

	db.logger.Debug("thread replayed",
		slog.String("thread", db.threadID),
		slog.Int("replies", len(replies)),
		slog.Int("accepted", len(result.Accepted)),
		slog.Int("records", len(result.Store)),
	)
	return result, nil
}

// Insert appends an ins event carrying content marshaled as JSON.
func (db *DB) Insert(ctx context.Context, content any) (ir.AppendResult, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return ir.AppendResult{}, fmt.Errorf("insert: marshal content: %w", err)
	}
	return db.Append(ctx, ir.Event{Op: ir.OpInsert, Content: raw})
}

// Update appends an upd event patching record id with patch.
func (db *DB) Update(ctx context.Context, id string, patch any) (ir.AppendResult, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return ir.AppendResult{}, fmt.Errorf("update: marshal patch: %w", err)
	}
	return db.Append(ctx, ir.Event{Op: ir.OpUpdate, ID: &id, Content: raw})
}

// Delete appends a del event for record id.
func (db *DB) Delete(ctx context.Context, id string) (ir.AppendResult, error) {
	return db.Append(ctx, ir.Event{Op: ir.OpDelete, ID: &id})
}
