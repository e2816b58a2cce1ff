package xapi

import (
	"strings"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

// isReply reports whether t references the tweet it replies to.
func isReply(t tweet) bool {
	for _, ref := range t.ReferencedTweets {
		if ref.Type == "replied_to" {
			return true
		}
	}
	return false
}

// normalizeTweet converts t to a ReplyRecord. The string is the drop
// reason when the boolean is false.
func normalizeTweet(t tweet) (ir.ReplyRecord, bool, string) {
	rec := ir.ReplyRecord{ReplyID: t.ID, AuthorID: t.AuthorID}
	if t.ID == "" {
		return rec, false, "missing id"
	}
	if t.AuthorID == "" {
		return rec, false, "missing author_id"
	}
	if t.Text == nil {
		return rec, false, "missing text"
	}
	createdAt, ok := adapter.ParseISOMillis(t.CreatedAt)
	if !ok {
		return rec, false, "missing or invalid created_at"
	}

	rec.Text = *t.Text
	rec.CreatedAt = createdAt
	if t.PublicMetrics != nil {
		rec.LikeCount = t.PublicMetrics.LikeCount
	}
	return rec, true, ""
}

// collectPage feeds the items of one search page into c. Items that do
// not decode cannot be recognized as the root and are dropped.
func collectPage(page searchResponse, c *adapter.Collector, includeRoot bool) {
	for _, item := range page.Data {
		if item.Err != nil {
			c.Add(ir.ReplyRecord{}, false, item.DropReason())
			continue
		}
		if !includeRoot && !isReply(item.Value) {
			continue
		}
		rec, ok, reason := normalizeTweet(item.Value)
		c.Add(rec, ok, reason)
	}
}

// joinErrors renders an errors array as one message.
func joinErrors(errs []apiError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.text()
	}
	return strings.Join(parts, ", ")
}
