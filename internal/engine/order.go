package engine

import (
	"cmp"
	"slices"

	"github.com/roach88/replydb/internal/ir"
)

// SortForReplay returns a sorted copy of records in replay order.
// The input slice is not modified.
func SortForReplay(records []ir.ReplyRecord) []ir.ReplyRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, compareReplies)
	return sorted
}

// compareReplies orders by CreatedAt, then ReplyID byte-wise.
func compareReplies(a, b ir.ReplyRecord) int {
	if c := cmp.Compare(a.CreatedAt, b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ReplyID, b.ReplyID)
}
