package engine

import (
	"github.com/roach88/replydb/internal/ir"
)

// Replay sorts records and folds every valid envelope into a fresh store.
//
// The returned accepted log lists each valid event exactly as parsed, in
// replay order, alongside the metadata of the reply that carried it.
func Replay(records []ir.ReplyRecord) ir.ReplayResult {
	result := ir.ReplayResult{
		Store:    ir.RecordStore{},
		Accepted: []ir.Accepted{},
	}

	for _, reply := range SortForReplay(records) {
		ev, ok := ir.ParseEvent(reply.Text)
		if !ok {
			continue
		}
		meta := ir.MetaFor(reply)
		apply(result.Store, ev, meta)
		result.Accepted = append(result.Accepted, ir.Accepted{Event: ev, Meta: meta})
	}

	return result
}

// apply mutates store with a single validated event.
func apply(store ir.RecordStore, ev ir.Event, meta ir.ReplyMeta) {
	ts := meta.CreatedAt
	if ev.TS != nil {
		ts = *ev.TS
	}

	switch ev.Op {
	case ir.OpInsert:
		id := ir.DeriveRecordID(meta.ReplyID)
		store[id] = ir.StoredRecord{
			ID:        id,
			Content:   ev.Content,
			CreatedAt: ts,
			UpdatedAt: ts,
			AuthorID:  meta.AuthorID,
			LikeCount: meta.LikeCount,
		}

	case ir.OpUpdate:
		id := *ev.ID
		existing, ok := store[id]
		if !ok {
			return
		}
		existing.Content = ir.MergeContent(existing.Content, ev.Content)
		existing.UpdatedAt = ts
		if meta.LikeCount != nil {
			existing.LikeCount = meta.LikeCount
		}
		store[id] = existing

	case ir.OpDelete:
		delete(store, *ev.ID)
	}
}

// Fingerprint replays records and returns the combined fingerprint of the
// resulting store and accepted log.
func Fingerprint(records []ir.ReplyRecord) (string, error) {
	return ir.ResultFingerprint(Replay(records))
}
