package replydb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/replydb/internal/ir"
)

// Record is a stored record with its content decoded as C.
type Record[C any] struct {
	ID        string `json:"id"`
	Content   C      `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	AuthorID  string `json:"authorId"`
	LikeCount *int64 `json:"likeCount,omitempty"`
}

// DecodeContent unmarshals rec's content into C.
func DecodeContent[C any](rec ir.StoredRecord) (C, error) {
	var c C
	if err := json.Unmarshal(rec.Content, &c); err != nil {
		return c, fmt.Errorf("decode content of %s: %w", rec.ID, err)
	}
	return c, nil
}

// DecodeStore decodes every record in store. The first record whose
// content does not fit C fails the whole call.
func DecodeStore[C any](store ir.RecordStore) (map[string]Record[C], error) {
	out := make(map[string]Record[C], len(store))
	for _, id := range store.SortedIDs() {
		rec := store[id]
		content, err := DecodeContent[C](rec)
		if err != nil {
			return nil, err
		}
		out[id] = Record[C]{
			ID:        rec.ID,
			Content:   content,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			AuthorID:  rec.AuthorID,
			LikeCount: rec.LikeCount,
		}
	}
	return out, nil
}

// ReadAs reads db and decodes the store as C.
func ReadAs[C any](ctx context.Context, db *DB) (map[string]Record[C], error) {
	result, err := db.Read(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeStore[C](result.Store)
}
