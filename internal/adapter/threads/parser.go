package threads

import (
	"encoding/json"
	"strings"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

// lineTypeRoot marks the thread's own post in containing_thread items.
const lineTypeRoot = "squiggle"

// normalizePost converts a post node to a ReplyRecord. The string is the
// drop reason when the boolean is false.
func normalizePost(p *postNode) (ir.ReplyRecord, bool, string) {
	if p == nil {
		return ir.ReplyRecord{}, false, "missing post"
	}

	rec := ir.ReplyRecord{ReplyID: string(firstID(p.PK, p.ID))}
	if rec.ReplyID == "" {
		return rec, false, "missing pk/id"
	}

	if p.User != nil {
		rec.AuthorID = string(firstID(p.User.PK, p.User.ID, flexID(p.User.Username)))
	}
	if rec.AuthorID == "" {
		return rec, false, "missing user"
	}

	if p.Caption == nil || p.Caption.Text == nil {
		return rec, false, "missing caption text"
	}
	rec.Text = *p.Caption.Text

	if p.TakenAt == nil {
		return rec, false, "missing taken_at"
	}
	createdAt, ok := adapter.SecondsToMillis(*p.TakenAt)
	if !ok {
		return rec, false, "invalid taken_at"
	}
	rec.CreatedAt = createdAt

	if p.TextPostAppInfo != nil {
		rec.LikeCount = p.TextPostAppInfo.LikeCount
	}
	return rec, true, ""
}

func firstID(ids ...flexID) flexID {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

// collectPage feeds every candidate item of one response into c and
// returns the reply connection's page info, if any.
func collectPage(resp readResponse, c *adapter.Collector, includeRoot bool) *pageInfo {
	if resp.Data == nil {
		return nil
	}

	var info *pageInfo
	if md := resp.Data.MediaData; md != nil && md.Replies != nil {
		for _, edge := range md.Replies.Edges {
			if edge.Err != nil {
				c.Add(ir.ReplyRecord{}, false, edge.DropReason())
				continue
			}
			var post *postNode
			if edge.Value.Node != nil {
				post = edge.Value.Node.Post
			}
			rec, ok, reason := normalizePost(post)
			c.Add(rec, ok, reason)
		}
		info = md.Replies.PageInfo
	}

	if inner := resp.Data.Data; inner != nil {
		if ct := inner.ContainingThread; ct != nil {
			for _, item := range ct.ThreadItems {
				if item.Err == nil && !includeRoot && item.Value.LineType == lineTypeRoot {
					continue
				}
				collectItem(c, item)
			}
		}
		for _, thread := range inner.ReplyThreads {
			for _, item := range thread.ThreadItems {
				collectItem(c, item)
			}
		}
	}

	return info
}

func collectItem(c *adapter.Collector, item adapter.Item[threadItem]) {
	if item.Err != nil {
		c.Add(ir.ReplyRecord{}, false, item.DropReason())
		return
	}
	rec, ok, reason := normalizePost(item.Value.Post)
	c.Add(rec, ok, reason)
}

// postedReplyID extracts the new reply id from a post response.
func postedReplyID(resp postResponse) string {
	if resp.Data == nil {
		return ""
	}
	for _, created := range []*createdReply{resp.Data.CreateTextPostReply, resp.Data.XDTCreateTextPostReply} {
		if created == nil || created.Media == nil {
			continue
		}
		if id, ok := mediaID(created.Media); ok {
			return id
		}
	}
	return ""
}

// mediaID returns pk, else id, when that value is a JSON string.
func mediaID(media map[string]json.RawMessage) (string, bool) {
	raw, ok := media["pk"]
	if !ok || string(raw) == "null" {
		raw, ok = media["id"]
	}
	if !ok {
		return "", false
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", false
	}
	return id, true
}

func joinErrors(errs []gqlError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Message
	}
	return strings.Join(parts, ", ")
}
