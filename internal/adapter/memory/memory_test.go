package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/testutil"
)

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("reply-%d", s.n)
}

func TestPostThenFetch(t *testing.T) {
	ctx := context.Background()
	a := New(WithClock(testutil.NewDeterministicClock(1000, 10)), WithIDGenerator(&sequenceIDs{}))

	res, err := a.PostReply(ctx, "thread-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply-1", res.ReplyID)

	_, err = a.PostReply(ctx, "thread-1", "world")
	require.NoError(t, err)

	records, err := a.FetchReplies(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, []ir.ReplyRecord{
		{ReplyID: "reply-1", AuthorID: DefaultAuthor, Text: "hello", CreatedAt: 1000},
		{ReplyID: "reply-2", AuthorID: DefaultAuthor, Text: "world", CreatedAt: 1010},
	}, records)
}

func TestDefaultIDsAreUUIDv7(t *testing.T) {
	a := New()
	res, err := a.PostReply(context.Background(), "t", "x")
	require.NoError(t, err)

	id, err := uuid.Parse(res.ReplyID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestThreadsAreIsolated(t *testing.T) {
	a := New(WithAuthor("bob"))
	a.Seed("a", testutil.Reply("1", 1, "one"))

	records, err := a.FetchReplies(context.Background(), "b")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err = a.PostReply(context.Background(), "b", "two")
	require.NoError(t, err)
	assert.Equal(t, "bob", a.Replies("b")[0].AuthorID)
	assert.Len(t, a.Replies("a"), 1)
}

func TestFetchReturnsCopy(t *testing.T) {
	a := New()
	a.Seed("t", testutil.Reply("1", 1, "one"))

	records, err := a.FetchReplies(context.Background(), "t")
	require.NoError(t, err)
	records[0].Text = "mutated"

	assert.Equal(t, "one", a.Replies("t")[0].Text)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := New()

	_, err := a.FetchReplies(ctx, "t")
	assert.True(t, adapter.IsKind(err, adapter.KindTransport))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = a.PostReply(ctx, "t", "x")
	assert.True(t, adapter.IsKind(err, adapter.KindTransport))
	assert.Empty(t, a.Replies("t"))
}

func TestConcurrentPosts(t *testing.T) {
	a := New(WithIDGenerator(&sequenceIDs{}), WithClock(testutil.NewDeterministicClock(0, 1)))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.PostReply(context.Background(), "t", "x")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records := a.Replies("t")
	require.Len(t, records, writers)
	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.ReplyID] = true
	}
	assert.Len(t, seen, writers)
}
