package archive

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/replydb/internal/replydb"
)

// Entry is one archived snapshot.
type Entry struct {
	ID          int64           `json:"id"`
	ThreadID    string          `json:"threadId"`
	Fingerprint string          `json:"fingerprint"`
	TakenAt     string          `json:"takenAt"`
	RecordCount int             `json:"recordCount"`
	EventCount  int             `json:"eventCount"`
	Document    json.RawMessage `json:"document,omitempty"`
}

// Snapshot decodes the archived document.
func (e Entry) Snapshot() (replydb.Snapshot, error) {
	var snap replydb.Snapshot
	if err := json.Unmarshal(e.Document, &snap); err != nil {
		return replydb.Snapshot{}, fmt.Errorf("decode snapshot %d: %w", e.ID, err)
	}
	return snap, nil
}

// Write archives snap. It returns the row id and whether a new row was
// inserted; an already archived (thread, fingerprint) pair returns the
// existing id and inserted=false.
func (a *Archive) Write(ctx context.Context, snap replydb.Snapshot) (id int64, inserted bool, err error) {
	doc, err := marshalDocument(snap)
	if err != nil {
		return 0, false, fmt.Errorf("write snapshot: %w", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("write snapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	meta := snap.Metadata
	result, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(thread_id, fingerprint, taken_at, record_count, event_count, document)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(thread_id, fingerprint) DO NOTHING
	`,
		meta.ThreadID,
		meta.Fingerprint,
		meta.Timestamp,
		meta.RecordCount,
		meta.EventCount,
		doc,
	)
	if err != nil {
		return 0, false, fmt.Errorf("write snapshot: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("write snapshot: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("write snapshot: last insert id: %w", err)
		}
		inserted = true
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM snapshots
			WHERE thread_id = ? AND fingerprint = ?
		`, meta.ThreadID, meta.Fingerprint).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("write snapshot: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("write snapshot: commit: %w", err)
	}
	return id, inserted, nil
}

// List returns the archived snapshots of a thread without their documents,
// oldest first. Returns an empty slice when none exist.
func (a *Archive) List(ctx context.Context, threadID string) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, thread_id, fingerprint, taken_at, record_count, event_count
		FROM snapshots
		WHERE thread_id = ?
		ORDER BY taken_at ASC, id ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Fingerprint, &e.TakenAt, &e.RecordCount, &e.EventCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return entries, nil
}

// Latest returns the most recent snapshot of a thread including its
// document. ok is false when the thread has none.
func (a *Archive) Latest(ctx context.Context, threadID string) (entry Entry, ok bool, err error) {
	var doc string
	err = a.db.QueryRowContext(ctx, `
		SELECT id, thread_id, fingerprint, taken_at, record_count, event_count, document
		FROM snapshots
		WHERE thread_id = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`, threadID).Scan(&entry.ID, &entry.ThreadID, &entry.Fingerprint, &entry.TakenAt, &entry.RecordCount, &entry.EventCount, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("query latest snapshot: %w", err)
	}
	entry.Document = json.RawMessage(doc)
	return entry, true, nil
}

// marshalDocument encodes snap without HTML escaping so archived content
// matches what was posted.
func marshalDocument(snap replydb.Snapshot) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
