// Package todo is a small application domain on top of the reply store:
// a todo list whose items are records and whose edits are replies.
package todo

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/replydb"
	"github.com/roach88/replydb/internal/schema"
)

// ErrEmptyContent is returned when an item's text is empty or blank.
var ErrEmptyContent = errors.New("todo: content must not be empty")

// Content is the record content of a todo item.
type Content struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Item is a todo item as read back from a thread.
type Item struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Done      bool   `json:"done"`
	AuthorID  string `json:"authorId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	LikeCount *int64 `json:"likeCount,omitempty"`
}

// NewItem builds the insert event for a new, open item.
func NewItem(content string) (ir.Event, error) {
	if strings.TrimSpace(content) == "" {
		return ir.Event{}, ErrEmptyContent
	}
	raw, err := json.Marshal(Content{Content: content})
	if err != nil {
		return ir.Event{}, fmt.Errorf("todo: marshal content: %w", err)
	}
	return ir.Event{V: ir.EventVersion, Op: ir.OpInsert, Content: raw}, nil
}

// SetDone builds the update event marking item id done or open.
func SetDone(id string, done bool) ir.Event {
	raw, _ := json.Marshal(map[string]bool{"done": done})
	return ir.Event{V: ir.EventVersion, Op: ir.OpUpdate, ID: &id, Content: raw}
}

// Rename builds the update event replacing the text of item id.
func Rename(id, content string) (ir.Event, error) {
	if strings.TrimSpace(content) == "" {
		return ir.Event{}, ErrEmptyContent
	}
	raw, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return ir.Event{}, fmt.Errorf("todo: marshal patch: %w", err)
	}
	return ir.Event{V: ir.EventVersion, Op: ir.OpUpdate, ID: &id, Content: raw}, nil
}

// Remove builds the delete event for item id.
func Remove(id string) ir.Event {
	return ir.Event{V: ir.EventVersion, Op: ir.OpDelete, ID: &id}
}

// Items returns the records of store that conform to v, oldest first.
// Records with equal creation times are ordered by id.
func Items(store ir.RecordStore, v *schema.Validator) []Item {
	items := make([]Item, 0, len(store))
	for _, rec := range store {
		if !v.Conforms(rec.Content) {
			continue
		}
		var c Content
		if err := json.Unmarshal(rec.Content, &c); err != nil {
			continue
		}
		items = append(items, Item{
			ID:        rec.ID,
			Content:   c.Content,
			Done:      c.Done,
			AuthorID:  rec.AuthorID,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			LikeCount: rec.LikeCount,
		})
	}
	slices.SortFunc(items, func(a, b Item) int {
		if c := cmp.Compare(a.CreatedAt, b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items
}

// List is a todo list stored in one thread.
type List struct {
	db     *replydb.DB
	schema *schema.Validator
	patch  *schema.Validator
	logger *slog.Logger
}

// NewList creates a List over db. A nil logger uses slog.Default().
func NewList(db *replydb.DB, logger *slog.Logger) (*List, error) {
	item, err := schema.Todo()
	if err != nil {
		return nil, err
	}
	patch, err := schema.TodoPatch()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &List{db: db, schema: item, patch: patch, logger: logger}, nil
}

// Add appends a new open item and returns its record id.
func (l *List) Add(ctx context.Context, content string) (string, error) {
	ev, err := NewItem(content)
	if err != nil {
		return "", err
	}
	if err := l.schema.Validate(ev.Content); err != nil {
		return "", err
	}
	res, err := l.db.Append(ctx, ev)
	if err != nil {
		return "", err
	}
	id := ir.DeriveRecordID(res.ReplyID)
	l.logger.Info("todo added", slog.String("id", id))
	return id, nil
}

// SetDone marks item id done or open.
func (l *List) SetDone(ctx context.Context, id string, done bool) error {
	return l.update(ctx, SetDone(id, done))
}

// Rename replaces the text of item id.
func (l *List) Rename(ctx context.Context, id, content string) error {
	ev, err := Rename(id, content)
	if err != nil {
		return err
	}
	return l.update(ctx, ev)
}

// Remove deletes item id.
func (l *List) Remove(ctx context.Context, id string) error {
	if _, err := l.db.Append(ctx, Remove(id)); err != nil {
		return err
	}
	l.logger.Info("todo removed", slog.String("id", id))
	return nil
}

// Items reads the thread and returns its todo items.
func (l *List) Items(ctx context.Context) ([]Item, error) {
	res, err := l.db.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Items(res.Store, l.schema), nil
}

func (l *List) update(ctx context.Context, ev ir.Event) error {
	if err := l.patch.Validate(ev.Content); err != nil {
		return err
	}
	if _, err := l.db.Append(ctx, ev); err != nil {
		return err
	}
	l.logger.Info("todo updated", slog.String("id", *ev.ID))
	return nil
}
