package xapi

import "github.com/roach88/replydb/internal/adapter"

// apiError is one entry of an X "errors" array.
type apiError struct {
	Detail  string `json:"detail"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e apiError) text() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	}
	return e.Message
}

type referencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type publicMetrics struct {
	LikeCount *int64 `json:"like_count"`
}

// tweet is a search result item. Pointer fields distinguish absent from
// empty.
type tweet struct {
	ID               string            `json:"id"`
	AuthorID         string            `json:"author_id"`
	Text             *string           `json:"text"`
	CreatedAt        string            `json:"created_at"`
	ConversationID   string            `json:"conversation_id"`
	PublicMetrics    *publicMetrics    `json:"public_metrics"`
	ReferencedTweets []referencedTweet `json:"referenced_tweets"`
}

type searchMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

type searchResponse struct {
	Data   []adapter.Item[tweet] `json:"data"`
	Meta   searchMeta            `json:"meta"`
	Errors []apiError            `json:"errors"`
}

type postReference struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type postRequest struct {
	Text  string        `json:"text"`
	Reply postReference `json:"reply"`
}

type postResponse struct {
	Data *struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}
