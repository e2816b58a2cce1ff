package threads

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/replydb/internal/adapter"
)

// flexID decodes an identifier sent either as a JSON string or a number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id is neither string nor number: %s", data)
		}
		*f = flexID(n.String())
	}
	return nil
}

type gqlError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type userNode struct {
	PK       flexID `json:"pk"`
	ID       flexID `json:"id"`
	Username string `json:"username"`
}

type postInfo struct {
	LikeCount        *int64 `json:"like_count"`
	DirectReplyCount *int64 `json:"direct_reply_count"`
}

type caption struct {
	Text *string `json:"text"`
}

type postNode struct {
	PK              flexID    `json:"pk"`
	ID              flexID    `json:"id"`
	Code            string    `json:"code"`
	TakenAt         *float64  `json:"taken_at"`
	TextPostAppInfo *postInfo `json:"text_post_app_info"`
	Caption         *caption  `json:"caption"`
	User            *userNode `json:"user"`
}

type pageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

type replyEdge struct {
	Node *struct {
		Post *postNode `json:"post"`
	} `json:"node"`
}

type repliesConnection struct {
	Edges    []adapter.Item[replyEdge] `json:"edges"`
	PageInfo *pageInfo                `json:"page_info"`
}

type threadItem struct {
	Post     *postNode `json:"post"`
	LineType string    `json:"line_type"`
}

type readResponse struct {
	Data *struct {
		MediaData *struct {
			Replies *repliesConnection `json:"replies"`
		} `json:"mediaData"`
		Data *struct {
			ContainingThread *struct {
				ThreadItems []adapter.Item[threadItem] `json:"thread_items"`
			} `json:"containing_thread"`
			ReplyThreads []struct {
				ThreadItems []adapter.Item[threadItem] `json:"thread_items"`
			} `json:"reply_threads"`
		} `json:"data"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}

type createdReply struct {
	Media map[string]json.RawMessage `json:"media"`
}

type postResponse struct {
	Data *struct {
		CreateTextPostReply    *createdReply `json:"create_text_post_reply"`
		XDTCreateTextPostReply *createdReply `json:"xdt_create_text_post_reply"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}
