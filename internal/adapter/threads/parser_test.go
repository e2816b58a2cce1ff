package threads

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

func decodeRead(t *testing.T, body string) readResponse {
	t.Helper()
	var resp readResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp
}

func collect(t *testing.T, body string, includeRoot bool) ([]ir.ReplyRecord, error) {
	t.Helper()
	c := adapter.NewCollector(adapter.PlatformThreads, nil, nil)
	collectPage(decodeRead(t, body), c, includeRoot)
	return c.Result()
}

func TestNormalizePost(t *testing.T) {
	var p postNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"pk": "3301",
		"id": "3301_99",
		"taken_at": 1705314600,
		"caption": {"text": "{\"v\":1,\"op\":\"ins\",\"content\":{}}"},
		"user": {"pk": "77", "username": "alice"},
		"text_post_app_info": {"like_count": 4}
	}`), &p))

	rec, ok, _ := normalizePost(&p)
	require.True(t, ok)
	assert.Equal(t, ir.ReplyRecord{
		ReplyID:   "3301",
		AuthorID:  "77",
		Text:      `{"v":1,"op":"ins","content":{}}`,
		CreatedAt: 1705314600000,
		LikeCount: ir.Int64(4),
	}, rec)
}

func TestNormalizePostFallbacks(t *testing.T) {
	var p postNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 12345,
		"taken_at": 1705314600,
		"caption": {"text": ""},
		"user": {"username": "bob"}
	}`), &p))

	rec, ok, _ := normalizePost(&p)
	require.True(t, ok)
	assert.Equal(t, "12345", rec.ReplyID, "numeric ids are accepted")
	assert.Equal(t, "bob", rec.AuthorID)
	assert.Equal(t, "", rec.Text)
	assert.Nil(t, rec.LikeCount)
}

func TestNormalizePostDrops(t *testing.T) {
	tests := []struct {
		name   string
		post   string
		reason string
	}{
		{"missing id", `{"taken_at":1,"caption":{"text":"x"},"user":{"pk":"1"}}`, "missing pk/id"},
		{"missing user", `{"pk":"1","taken_at":1,"caption":{"text":"x"}}`, "missing user"},
		{"empty user", `{"pk":"1","taken_at":1,"caption":{"text":"x"},"user":{}}`, "missing user"},
		{"missing caption", `{"pk":"1","taken_at":1,"user":{"pk":"1"}}`, "missing caption text"},
		{"null caption text", `{"pk":"1","taken_at":1,"caption":{"text":null},"user":{"pk":"1"}}`, "missing caption text"},
		{"missing taken_at", `{"pk":"1","caption":{"text":"x"},"user":{"pk":"1"}}`, "missing taken_at"},
		{"zero taken_at", `{"pk":"1","taken_at":0,"caption":{"text":"x"},"user":{"pk":"1"}}`, "invalid taken_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p postNode
			require.NoError(t, json.Unmarshal([]byte(tt.post), &p))
			_, ok, reason := normalizePost(&p)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}

	_, ok, reason := normalizePost(nil)
	assert.False(t, ok)
	assert.Equal(t, "missing post", reason)
}

func TestCollectMediaDataShape(t *testing.T) {
	records, err := collect(t, `{"data":{"mediaData":{"replies":{"edges":[
		{"node":{"post":{"pk":"1","taken_at":100,"caption":{"text":"a"},"user":{"pk":"u"}}}},
		{"node":{"post":{"pk":"2","taken_at":200,"caption":{"text":"b"},"user":{"pk":"u"}}}}
	]}}}}`, false)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(200000), records[1].CreatedAt)
}

func TestCollectContainingThreadSkipsRoot(t *testing.T) {
	body := `{"data":{"data":{"containing_thread":{"thread_items":[
		{"line_type":"squiggle","post":{"pk":"root","taken_at":50,"caption":{"text":"thread"},"user":{"pk":"u"}}},
		{"line_type":"line","post":{"pk":"1","taken_at":100,"caption":{"text":"a"},"user":{"pk":"u"}}}
	]}}}}`

	excluded, err := collect(t, body, false)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, "1", excluded[0].ReplyID)

	included, err := collect(t, body, true)
	require.NoError(t, err)
	assert.Len(t, included, 2)
}

func TestCollectReplyThreadsShape(t *testing.T) {
	records, err := collect(t, `{"data":{"data":{"reply_threads":[
		{"thread_items":[{"post":{"pk":"1","taken_at":100,"caption":{"text":"a"},"user":{"pk":"u"}}}]},
		{"thread_items":[{"post":{"pk":"2","taken_at":200,"caption":{"text":"b"},"user":{"id":"u2"}}}]},
		{}
	]}}}`, false)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "u2", records[1].AuthorID)
}

func TestCollectAllInvalid(t *testing.T) {
	_, err := collect(t, `{"data":{"mediaData":{"replies":{"edges":[{"node":{"post":{"pk":"1"}}}]}}}}`, false)
	require.Error(t, err)
	assert.True(t, adapter.IsKind(err, adapter.KindNormalization))
}

func TestCollectEmptyResponse(t *testing.T) {
	records, err := collect(t, `{}`, false)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCollectReturnsPageInfo(t *testing.T) {
	c := adapter.NewCollector(adapter.PlatformThreads, nil, nil)
	info := collectPage(decodeRead(t, `{"data":{"mediaData":{"replies":{"edges":[],"page_info":{"has_next_page":true,"end_cursor":"c1"}}}}}`), c, false)

	require.NotNil(t, info)
	assert.True(t, info.HasNextPage)
	assert.Equal(t, "c1", info.EndCursor)
}

func TestPostedReplyID(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"create pk", `{"data":{"create_text_post_reply":{"media":{"pk":"111","id":"111_9"}}}}`, "111"},
		{"create id", `{"data":{"create_text_post_reply":{"media":{"id":"222"}}}}`, "222"},
		{"xdt", `{"data":{"xdt_create_text_post_reply":{"media":{"pk":"333"}}}}`, "333"},
		{"numeric pk falls through", `{"data":{"create_text_post_reply":{"media":{"pk":5}},"xdt_create_text_post_reply":{"media":{"pk":"444"}}}}`, "444"},
		{"null pk uses id", `{"data":{"create_text_post_reply":{"media":{"pk":null,"id":"555"}}}}`, "555"},
		{"no media", `{"data":{"create_text_post_reply":{}}}`, ""},
		{"no data", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp postResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			assert.Equal(t, tt.expected, postedReplyID(resp))
		})
	}
}

func TestFlexIDRejectsObjects(t *testing.T) {
	var f flexID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func TestCollectDropsWronglyTypedItem(t *testing.T) {
	valid := `{"node":{"post":{"pk":"1","taken_at":1705314600,"caption":{"text":"ok"},"user":{"pk":"7"}}}}`
	tests := []struct {
		name string
		bad  string
	}{
		{"string taken_at", `{"node":{"post":{"pk":"2","taken_at":"1705314600","caption":{"text":"x"},"user":{"pk":"7"}}}}`},
		{"fractional like_count", `{"node":{"post":{"pk":"2","taken_at":1705314600,"caption":{"text":"x"},"user":{"pk":"7"},"text_post_app_info":{"like_count":4.5}}}}`},
		{"bool pk", `{"node":{"post":{"pk":true,"taken_at":1705314600,"caption":{"text":"x"},"user":{"pk":"7"}}}}`},
		{"object pk", `{"node":{"post":{"pk":{"a":1},"taken_at":1705314600,"caption":{"text":"x"},"user":{"pk":"7"}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"data":{"mediaData":{"replies":{"edges":[` + tt.bad + `,` + valid + `]}}}}`
			recs, err := collect(t, body, false)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, "1", recs[0].ReplyID)
		})
	}
}

func TestCollectDropsWronglyTypedThreadItem(t *testing.T) {
	body := `{"data":{"data":{"reply_threads":[{"thread_items":[
		{"post":{"pk":"5","taken_at":1705314600,"caption":{"text":"ok"},"user":{"pk":"7"}}},
		{"post":{"pk":"6","taken_at":"soon","caption":{"text":"x"},"user":{"pk":"7"}}}
	]}]}}}`
	recs, err := collect(t, body, false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "5", recs[0].ReplyID)
}

func TestCollectOnlyMalformedItems(t *testing.T) {
	body := `{"data":{"mediaData":{"replies":{"edges":[{"node":{"post":{"pk":false}}}]}}}}`
	_, err := collect(t, body, false)
	require.Error(t, err)
	assert.True(t, adapter.IsKind(err, adapter.KindNormalization))
}
