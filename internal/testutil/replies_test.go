package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/ir"
)

func TestEnvelopeBuildersProduceValidEvents(t *testing.T) {
	for _, text := range []string{
		Insert(`{"task":"Test"}`),
		Update("r_1", `{"done":true}`),
		Delete("r_1"),
	} {
		assert.True(t, ir.IsEvent(text), text)
	}
}

func TestInsertText(t *testing.T) {
	assert.Equal(t, `{"v":1,"op":"ins","content":{"task":"Test"}}`, Insert(`{"task":"Test"}`))
}

func TestMustEncodePanicsOnInvalidContent(t *testing.T) {
	assert.Panics(t, func() { Insert(`{bad`) })
}

func TestLikedReply(t *testing.T) {
	r := LikedReply("7", 100, 4, "hi")
	require.NotNil(t, r.LikeCount)
	assert.Equal(t, int64(4), *r.LikeCount)
	assert.Equal(t, DefaultAuthor, r.AuthorID)
}

func TestPermutations(t *testing.T) {
	records := []ir.ReplyRecord{Reply("a", 1, ""), Reply("b", 2, ""), Reply("c", 3, "")}

	perms := Permutations(records)
	require.Len(t, perms, 6)

	seen := make(map[string]bool)
	for _, p := range perms {
		key := p[0].ReplyID + p[1].ReplyID + p[2].ReplyID
		seen[key] = true
	}
	assert.Len(t, seen, 6, "all orderings must be distinct")
	assert.Equal(t, "a", records[0].ReplyID, "input must not be reordered")
}

func TestPermutationsEmpty(t *testing.T) {
	assert.Len(t, Permutations(nil), 1)
}
