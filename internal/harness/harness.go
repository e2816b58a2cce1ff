package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/replydb/internal/adapter/memory"
	"github.com/roach88/replydb/internal/engine"
	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/replydb"
	"github.com/roach88/replydb/internal/testutil"
)

const (
	// AppendAuthor authors replies posted by Appends.
	AppendAuthor = "harness"

	// AppendIDPrefix prefixes the reply ids of appended replies.
	AppendIDPrefix = "a"

	// clockStep separates appended replies.
	clockStep int64 = 1000

	// maxPermutedReplies bounds the exhaustive permutation check.
	maxPermutedReplies = 6
)

// Harness runs scenarios against an in-memory thread.
type Harness struct {
	mem    *memory.Adapter
	db     *replydb.DB
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Seed a fresh in-memory thread with the scenario replies
// 2. Post each append through the façade
// 3. Read the thread back and replay it
// 4. Replay other orders and compare fingerprints
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := memory.New(
		memory.WithClock(testutil.NewDeterministicClock(appendClockStart(scenario.Replies), clockStep)),
		memory.WithIDGenerator(testutil.NewSequenceGenerator(AppendIDPrefix)),
		memory.WithAuthor(AppendAuthor),
		memory.WithLogger(logger),
	)
	mem.Seed(scenario.Thread(), scenario.Replies...)

	db, err := replydb.New(replydb.Config{Adapter: mem, ThreadID: scenario.Thread(), Logger: logger})
	if err != nil {
		return nil, err
	}

	h := &Harness{mem: mem, db: db, logger: logger}
	ctx := context.Background()

	if err := h.executeAppends(ctx, scenario.Appends); err != nil {
		return nil, fmt.Errorf("failed to execute appends: %w", err)
	}

	read, err := db.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read thread: %w", err)
	}

	result := NewResult()
	result.Replies = mem.Replies(scenario.Thread())
	result.Store = read.Store
	result.Accepted = read.Accepted

	result.Fingerprint, err = ir.ResultFingerprint(read)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint result: %w", err)
	}

	if msg := checkOrderIndependence(result.Replies, result.Fingerprint); msg != "" {
		result.AddError(msg)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeAppends posts each envelope through the façade.
func (h *Harness) executeAppends(ctx context.Context, appends []string) error {
	for i, text := range appends {
		ev, ok := ir.ParseEvent(text)
		if !ok {
			return fmt.Errorf("append %d: not a valid event envelope", i)
		}
		res, err := h.db.Append(ctx, ev)
		if err != nil {
			return fmt.Errorf("append %d: %w", i, err)
		}
		h.logger.Info("append posted", "step", i, "reply_id", res.ReplyID)
	}
	return nil
}

// appendClockStart returns one step after the latest seeded reply.
func appendClockStart(replies []ir.ReplyRecord) int64 {
	var latest int64
	for _, r := range replies {
		latest = max(latest, r.CreatedAt)
	}
	return latest + clockStep
}

// checkOrderIndependence replays replies in other orders and reports the
// first order whose fingerprint differs from want.
func checkOrderIndependence(replies []ir.ReplyRecord, want string) string {
	var orders [][]ir.ReplyRecord
	if len(replies) <= maxPermutedReplies {
		orders = testutil.Permutations(replies)
	} else {
		reversed := make([]ir.ReplyRecord, len(replies))
		for i, r := range replies {
			reversed[len(replies)-1-i] = r
		}
		orders = [][]ir.ReplyRecord{reversed}
	}

	for _, order := range orders {
		got, err := engine.Fingerprint(order)
		if err != nil {
			return fmt.Sprintf("replay fingerprint failed: %v", err)
		}
		if got != want {
			ids := make([]string, len(order))
			for i, r := range order {
				ids[i] = r.ReplyID
			}
			return fmt.Sprintf("replay is order dependent: order %v gave %s, want %s", ids, got, want)
		}
	}
	return ""
}
