// Package xapi implements the Adapter for X (Twitter) API v2.
//
// Replies are found with the search endpoint using
// query=conversation_id:<thread id> and followed through next_token
// pagination. Replies are posted with POST /tweets.
package xapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf16"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/ir"
)

// Option configures an Adapter.
type Option func(*options)

type options struct {
	client  *http.Client
	logger  *slog.Logger
	metrics *adapter.Metrics
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the adapter counters.
func WithMetrics(m *adapter.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Adapter reads and posts X replies.
type Adapter struct {
	cfg       Config
	transport *adapter.Transport
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an X adapter. Credentials are checked per call, so a
// read-only configuration is valid.
func New(cfg Config, opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Adapter{
		cfg:       cfg,
		transport: adapter.NewTransport(adapter.PlatformX, o.client, o.logger, o.metrics),
	}
}

// FetchReplies returns every reply in the conversation rooted at threadID.
func (a *Adapter) FetchReplies(ctx context.Context, threadID string) ([]ir.ReplyRecord, error) {
	token, ok := a.cfg.readToken()
	if !ok {
		return nil, adapter.NewError(adapter.PlatformX, adapter.OpFetch, adapter.KindConfig,
			"bearer token or OAuth access token required")
	}

	collector := adapter.NewCollector(adapter.PlatformX, a.transport.Logger(), a.transport.Metrics())
	seen := make(map[string]bool)
	nextToken := ""

	for {
		page, err := a.fetchPage(ctx, token, threadID, nextToken)
		if err != nil {
			return nil, err
		}
		a.transport.Metrics().ObservePage(adapter.PlatformX)

		if len(page.Errors) > 0 {
			return nil, adapter.NewError(adapter.PlatformX, adapter.OpFetch, adapter.KindUpstream,
				"X API returned errors: %s", joinErrors(page.Errors))
		}

		collectPage(page, collector, a.cfg.IncludeRoot)

		nextToken = page.Meta.NextToken
		if nextToken == "" || seen[nextToken] {
			break
		}
		seen[nextToken] = true
	}

	records, err := collector.Result()
	if err != nil {
		return nil, err
	}
	a.transport.Logger().Debug("replies fetched",
		slog.String("platform", adapter.PlatformX),
		slog.String("thread", threadID),
		slog.Int("replies", len(records)),
	)
	return records, nil
}

func (a *Adapter) fetchPage(ctx context.Context, token, threadID, nextToken string) (searchResponse, error) {
	params := url.Values{}
	params.Set("query", "conversation_id:"+threadID)
	params.Set("tweet.fields", tweetFields)
	params.Set("max_results", strconv.Itoa(a.cfg.maxResults()))
	if nextToken != "" {
		params.Set("next_token", nextToken)
	}

	var page searchResponse
	err := a.transport.DoJSON(ctx, adapter.OpFetch, adapter.Request{
		Method: http.MethodGet,
		URL:    a.cfg.baseURL() + a.cfg.searchPath() + "?" + params.Encode(),
		Header: authHeader(token),
	}, &page)
	return page, err
}

// PostReply posts text as a reply to threadID.
func (a *Adapter) PostReply(ctx context.Context, threadID, text string) (ir.AppendResult, error) {
	if a.cfg.OAuthAccessToken == "" {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformX, adapter.OpPost, adapter.KindConfig,
			"OAuth access token required to post; app-only bearer tokens cannot post")
	}
	if n := utf16Len(text); n > MaxReplyLength {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformX, adapter.OpPost, adapter.KindTooLong,
			"reply text exceeds %d characters (got %d)", MaxReplyLength, n)
	}

	body, err := json.Marshal(postRequest{
		Text:  text,
		Reply: postReference{InReplyToTweetID: threadID},
	})
	if err != nil {
		return ir.AppendResult{}, adapter.WrapError(adapter.PlatformX, adapter.OpPost, adapter.KindConfig, err, "encode body")
	}

	var resp postResponse
	if err := a.transport.DoJSON(ctx, adapter.OpPost, adapter.Request{
		Method: http.MethodPost,
		URL:    a.cfg.baseURL() + "/tweets",
		Header: authHeader(a.cfg.OAuthAccessToken),
		Body:   body,
	}, &resp); err != nil {
		return ir.AppendResult{}, err
	}

	if len(resp.Errors) > 0 {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformX, adapter.OpPost, adapter.KindUpstream,
			"X API error posting reply: %s", joinErrors(resp.Errors))
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return ir.AppendResult{}, adapter.NewError(adapter.PlatformX, adapter.OpPost, adapter.KindNoResultID,
			"response did not contain a tweet id; the post may have failed")
	}

	return ir.AppendResult{ReplyID: resp.Data.ID}, nil
}

func authHeader(token string) http.Header {
	return http.Header{
		"Authorization": []string{"Bearer " + token},
		"Content-Type":  []string{"application/json"},
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}
