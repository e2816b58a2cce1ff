package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/replydb/internal/ir"
)

// DefaultAuthor is the author id used by Reply.
const DefaultAuthor = "author-1"

// Reply builds a ReplyRecord authored by DefaultAuthor.
func Reply(replyID string, createdAt int64, text string) ir.ReplyRecord {
	return ir.ReplyRecord{
		ReplyID:   replyID,
		AuthorID:  DefaultAuthor,
		Text:      text,
		CreatedAt: createdAt,
	}
}

// LikedReply is Reply with a like count.
func LikedReply(replyID string, createdAt int64, likes int64, text string) ir.ReplyRecord {
	r := Reply(replyID, createdAt, text)
	r.LikeCount = ir.Int64(likes)
	return r
}

// Insert returns the reply text of an ins envelope. content must be JSON.
func Insert(content string) string {
	return MustEncode(ir.Event{V: ir.EventVersion, Op: ir.OpInsert, Content: json.RawMessage(content)})
}

// Update returns the reply text of an upd envelope. content must be JSON.
func Update(id, content string) string {
	return MustEncode(ir.Event{V: ir.EventVersion, Op: ir.OpUpdate, ID: ir.String(id), Content: json.RawMessage(content)})
}

// Delete returns the reply text of a del envelope.
func Delete(id string) string {
	return MustEncode(ir.Event{V: ir.EventVersion, Op: ir.OpDelete, ID: ir.String(id)})
}

// MustEncode encodes ev or panics.
func MustEncode(ev ir.Event) string {
	data, err := ir.EncodeEvent(ev)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return string(data)
}

// Permutations returns every ordering of records (Heap's algorithm).
// Intended for small inputs: n records yield n! slices.
func Permutations(records []ir.ReplyRecord) [][]ir.ReplyRecord {
	work := make([]ir.ReplyRecord, len(records))
	copy(work, records)

	var out [][]ir.ReplyRecord
	var generate func(k int)
	generate = func(k int) {
		if k <= 1 {
			perm := make([]ir.ReplyRecord, len(work))
			copy(perm, work)
			out = append(out, perm)
			return
		}
		generate(k - 1)
		for i := 0; i < k-1; i++ {
			if k%2 == 0 {
				work[i], work[k-1] = work[k-1], work[i]
			} else {
				work[0], work[k-1] = work[k-1], work[0]
			}
			generate(k - 1)
		}
	}
	generate(len(work))
	return out
}
