package ir

import (
	"encoding/json"
	"slices"
)

// RecordIDPrefix is prepended to a reply id to form a canonical record id.
const RecordIDPrefix = "r_"

// ReplyRecord is a platform reply normalized by an adapter.
// Produced fresh on every fetch; the core never persists it.
type ReplyRecord struct {
	ReplyID   string `json:"replyId" yaml:"reply_id"`     // Unique per platform, non-empty
	AuthorID  string `json:"authorId" yaml:"author_id"`   // Platform author identifier
	Text      string `json:"text" yaml:"text"`            // Raw reply body, may or may not be an event
	CreatedAt int64  `json:"createdAt" yaml:"created_at"` // Milliseconds since epoch
	LikeCount *int64 `json:"likeCount,omitempty" yaml:"like_count,omitempty"`
}

// ReplyMeta is the reply metadata attached to every accepted event.
type ReplyMeta struct {
	ReplyID   string `json:"replyId"`
	AuthorID  string `json:"authorId"`
	CreatedAt int64  `json:"createdAt"`
	LikeCount *int64 `json:"likeCount,omitempty"`
	RawText   string `json:"rawText"`
}

// MetaFor builds the replay metadata for a reply.
func MetaFor(r ReplyRecord) ReplyMeta {
	return ReplyMeta{
		ReplyID:   r.ReplyID,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		LikeCount: r.LikeCount,
		RawText:   r.Text,
	}
}

// Op is an envelope operation.
type Op string

const (
	OpInsert Op = "ins"
	OpUpdate Op = "upd"
	OpDelete Op = "del"
)

// Valid reports whether op is one of the three envelope operations.
func (op Op) Valid() bool {
	switch op {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Event is the mutation envelope carried in a reply's text.
//
// Content is nil when the key was absent; a JSON null content is the raw
// message "null" and counts as present.
type Event struct {
	V       int             `json:"v"`
	Op      Op              `json:"op"`
	ID      *string         `json:"id,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	TS      *int64          `json:"ts,omitempty"`
}

// HasContent reports whether the envelope carried a content key.
func (e Event) HasContent() bool {
	return e.Content != nil
}

// StoredRecord is one materialized record after replay.
type StoredRecord struct {
	ID        string          `json:"id"`
	Content   json.RawMessage `json:"content"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
	AuthorID  string          `json:"authorId"`
	LikeCount *int64          `json:"likeCount,omitempty"`
}

// RecordStore maps canonical record ids to records.
// Iteration order carries no meaning; use SortedIDs for deterministic output.
type RecordStore map[string]StoredRecord

// SortedIDs returns the store keys in byte-wise ascending order.
func (s RecordStore) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Accepted is one entry of the accepted-event log: the parsed event
// (before id derivation and ts defaulting) plus its reply metadata.
//
// Event is the typed projection of the envelope. Unknown keys, an id that
// is not a string on ins, and a ts that is not an integer are not carried
// in it; Meta.RawText holds the reply text as received.
type Accepted struct {
	Event Event     `json:"event"`
	Meta  ReplyMeta `json:"meta"`
}

// ReplayResult is the output of a replay and of a façade read.
type ReplayResult struct {
	Store    RecordStore `json:"store"`
	Accepted []Accepted  `json:"accepted"`
}

// AppendResult is returned when an event has been posted as a reply.
type AppendResult struct {
	ReplyID string `json:"replyId"`
}

// DeriveRecordID returns the canonical record id for an inserting reply.
func DeriveRecordID(replyID string) string {
	return RecordIDPrefix + replyID
}

// Int64 returns a pointer to n. Handy for optional counters in literals.
func Int64(n int64) *int64 {
	return &n
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}
