package replydb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/replydb/internal/ir"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Snapshot is an exportable view of one read: the materialized records
// plus the accepted events that produced them.
type Snapshot struct {
	Metadata SnapshotMetadata           `json:"metadata"`
	Records  map[string]ir.StoredRecord `json:"records"`
	Events   []SnapshotEvent            `json:"events"`
}

// SnapshotMetadata describes when and from where a snapshot was taken.
type SnapshotMetadata struct {
	ThreadID    string `json:"threadId"`
	Timestamp   string `json:"timestamp"`
	RecordCount int    `json:"recordCount"`
	EventCount  int    `json:"eventCount"`
	Fingerprint string `json:"fingerprint"`
}

// SnapshotEvent is one accepted event flattened with its reply metadata.
type SnapshotEvent struct {
	ReplyID   string          `json:"replyId"`
	AuthorID  string          `json:"authorId"`
	CreatedAt string          `json:"createdAt"`
	Op        ir.Op           `json:"op"`
	ID        *string         `json:"id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// NewSnapshot builds the snapshot document for result.
func NewSnapshot(threadID string, result ir.ReplayResult, takenAt time.Time) (Snapshot, error) {
	fingerprint, err := ir.ResultFingerprint(result)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}

	records := make(map[string]ir.StoredRecord, len(result.Store))
	for id, rec := range result.Store {
		records[id] = rec
	}

	events := make([]SnapshotEvent, len(result.Accepted))
	for i, a := range result.Accepted {
		events[i] = SnapshotEvent{
			ReplyID:   a.Meta.ReplyID,
			AuthorID:  a.Meta.AuthorID,
			CreatedAt: FormatMillis(a.Meta.CreatedAt),
			Op:        a.Event.Op,
			ID:        a.Event.ID,
			Content:   a.Event.Content,
		}
	}

	return Snapshot{
		Metadata: SnapshotMetadata{
			ThreadID:    threadID,
			Timestamp:   takenAt.UTC().Format(isoMillis),
			RecordCount: len(result.Store),
			EventCount:  len(result.Accepted),
			Fingerprint: fingerprint,
		},
		Records: records,
		Events:  events,
	}, nil
}

// FormatMillis renders epoch milliseconds as an ISO-8601 UTC timestamp.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(isoMillis)
}
