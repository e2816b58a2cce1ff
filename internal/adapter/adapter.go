package adapter

import (
	"context"

	"github.com/roach88/replydb/internal/ir"
)

//go:generate mockgen -destination=mocks/mock_adapter.go -package=mocks github.com/roach88/replydb/internal/adapter Adapter

// Platform names accepted by configuration and the CLI.
const (
	PlatformX       = "x"
	PlatformThreads = "threads"
	PlatformMemory  = "memory"
)

// Operation names used in errors, logs and metrics.
const (
	OpFetch = "fetch"
	OpPost  = "post"
)

// Adapter reads and writes replies on one platform.
//
// FetchReplies returns every reply to threadID in any order, following
// pagination until exhausted. Items missing an id, author, text or a
// parseable timestamp are dropped; if every candidate item is dropped the
// call fails with KindNormalization.
//
// PostReply publishes text as a new reply and returns its id. It fails if
// the platform does not report one.
//
// Implementations never retry. Cancellation and deadlines come from ctx.
type Adapter interface {
	FetchReplies(ctx context.Context, threadID string) ([]ir.ReplyRecord, error)
	PostReply(ctx context.Context, threadID, text string) (ir.AppendResult, error)
}
