package todo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/adapter/memory"
	"github.com/roach88/replydb/internal/adapter/mocks"
	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/replydb"
	"github.com/roach88/replydb/internal/schema"
	"github.com/roach88/replydb/internal/testutil"
)

func newList(t *testing.T) (*List, *memory.Adapter) {
	t.Helper()
	mem := memory.New(memory.WithClock(testutil.NewDeterministicClock(1000, 10)))
	db, err := replydb.New(replydb.Config{Adapter: mem, ThreadID: "thread-1"})
	require.NoError(t, err)
	list, err := NewList(db, nil)
	require.NoError(t, err)
	return list, mem
}

func TestNewItem(t *testing.T) {
	ev, err := NewItem("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, ir.OpInsert, ev.Op)
	assert.Nil(t, ev.ID)
	assert.JSONEq(t, `{"content":"Buy milk","done":false}`, string(ev.Content))
}

func TestNewItemRejectsBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := NewItem(text)
		assert.ErrorIs(t, err, ErrEmptyContent, "%q", text)
	}
}

func TestEventBuilders(t *testing.T) {
	done := SetDone("r_1", true)
	assert.Equal(t, ir.OpUpdate, done.Op)
	assert.Equal(t, "r_1", *done.ID)
	assert.JSONEq(t, `{"done":true}`, string(done.Content))

	renamed, err := Rename("r_1", "Buy oat milk")
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"Buy oat milk"}`, string(renamed.Content))

	_, err = Rename("r_1", " ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	removed := Remove("r_1")
	assert.Equal(t, ir.OpDelete, removed.Op)
	assert.Nil(t, removed.Content)
}

func TestItemsSkipsNonConformingAndSorts(t *testing.T) {
	v, err := schema.Todo()
	require.NoError(t, err)

	store := ir.RecordStore{
		"r_b": {ID: "r_b", Content: json.RawMessage(`{"content":"second","done":true}`), CreatedAt: 200},
		"r_a": {ID: "r_a", Content: json.RawMessage(`{"content":"tie","done":false}`), CreatedAt: 200},
		"r_c": {ID: "r_c", Content: json.RawMessage(`{"content":"first","done":false}`), CreatedAt: 100},
		"r_x": {ID: "r_x", Content: json.RawMessage(`{"task":"other app"}`), CreatedAt: 50},
		"r_y": {ID: "r_y", Content: json.RawMessage(`"plain"`), CreatedAt: 60},
	}

	items := Items(store, v)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"r_c", "r_a", "r_b"}, []string{items[0].ID, items[1].ID, items[2].ID})
	assert.True(t, items[2].Done)
}

func TestItemsEmptyStore(t *testing.T) {
	v, err := schema.Todo()
	require.NoError(t, err)
	assert.Empty(t, Items(ir.RecordStore{}, v))
}

func TestListLifecycle(t *testing.T) {
	ctx := context.Background()
	list, _ := newList(t)

	milk, err := list.Add(ctx, "Buy milk")
	require.NoError(t, err)
	eggs, err := list.Add(ctx, "Buy eggs")
	require.NoError(t, err)

	require.NoError(t, list.SetDone(ctx, milk, true))
	require.NoError(t, list.Rename(ctx, eggs, "Buy a dozen eggs"))

	items, err := list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, milk, items[0].ID)
	assert.True(t, items[0].Done)
	assert.Equal(t, "Buy milk", items[0].Content)
	assert.Equal(t, "Buy a dozen eggs", items[1].Content)
	assert.False(t, items[1].Done)

	require.NoError(t, list.Remove(ctx, milk))
	items, err = list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, eggs, items[0].ID)
}

func TestListAddRejectsBlankBeforePosting(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockAdapter(ctrl)
	// No PostReply expectation: any call fails the test.

	db, err := replydb.New(replydb.Config{Adapter: mock, ThreadID: "thread-1"})
	require.NoError(t, err)
	list, err := NewList(db, nil)
	require.NoError(t, err)

	_, err = list.Add(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	err = list.Rename(context.Background(), "r_1", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestListAddUsesReplyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockAdapter(ctrl)
	mock.EXPECT().
		PostReply(gomock.Any(), "thread-1", `{"v":1,"op":"ins","content":{"content":"Buy milk","done":false}}`).
		Return(ir.AppendResult{ReplyID: "42"}, nil)

	db, err := replydb.New(replydb.Config{Adapter: mock, ThreadID: "thread-1"})
	require.NoError(t, err)
	list, err := NewList(db, nil)
	require.NoError(t, err)

	id, err := list.Add(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "r_42", id)
}

func TestListIgnoresForeignRecords(t *testing.T) {
	ctx := context.Background()
	list, mem := newList(t)

	mem.Seed("thread-1", testutil.Reply("1", 10, `{"v":1,"op":"ins","content":{"task":"not a todo"}}`))
	_, err := list.Add(ctx, "Buy milk")
	require.NoError(t, err)

	items, err := list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Content)
}
