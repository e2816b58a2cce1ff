package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/testutil"
)

func replyIDs(records []ir.ReplyRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ReplyID
	}
	return ids
}

func TestSortForReplayByCreatedAt(t *testing.T) {
	records := []ir.ReplyRecord{
		testutil.Reply("c", 3000, ""),
		testutil.Reply("a", 1000, ""),
		testutil.Reply("b", 2000, ""),
	}

	assert.Equal(t, []string{"a", "b", "c"}, replyIDs(SortForReplay(records)))
}

func TestSortForReplayTieBreaksByReplyID(t *testing.T) {
	records := []ir.ReplyRecord{
		testutil.Reply("b", 1000, ""),
		testutil.Reply("a", 1000, ""),
		testutil.Reply("C", 1000, ""),
	}

	// byte-wise: uppercase sorts before lowercase
	assert.Equal(t, []string{"C", "a", "b"}, replyIDs(SortForReplay(records)))
}

func TestSortForReplayIgnoresEventTS(t *testing.T) {
	records := []ir.ReplyRecord{
		testutil.Reply("2", 2000, `{"v":1,"op":"ins","content":{},"ts":1}`),
		testutil.Reply("1", 1000, `{"v":1,"op":"ins","content":{},"ts":9999999}`),
	}

	assert.Equal(t, []string{"1", "2"}, replyIDs(SortForReplay(records)))
}

func TestSortForReplayDoesNotMutateInput(t *testing.T) {
	records := []ir.ReplyRecord{
		testutil.Reply("b", 2, ""),
		testutil.Reply("a", 1, ""),
	}

	_ = SortForReplay(records)

	assert.Equal(t, []string{"b", "a"}, replyIDs(records))
}

func TestSortForReplayEmpty(t *testing.T) {
	assert.Empty(t, SortForReplay(nil))
}
