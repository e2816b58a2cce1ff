package xapi

// DefaultAPIBaseURL is the X API v2 root.
const DefaultAPIBaseURL = "https://api.x.com/2"

// DefaultMaxResults is the page size requested from the search endpoint.
const DefaultMaxResults = 100

// MaxReplyLength is the longest reply text accepted for posting, counted
// in UTF-16 code units (X Premium limit).
const MaxReplyLength = 25000

// Search tiers.
const (
	TierRecent = "recent"
	TierAll    = "all"
)

// tweetFields is requested on every search page.
const tweetFields = "id,author_id,text,created_at,public_metrics,conversation_id,referenced_tweets"

// Config configures the X adapter.
//
// Reading needs BearerToken or OAuthAccessToken (bearer preferred).
// Posting needs OAuthAccessToken; app-only bearer tokens cannot post.
type Config struct {
	APIBaseURL       string
	BearerToken      string
	OAuthAccessToken string

	// SearchTier selects /tweets/search/recent (default) or /all.
	SearchTier string

	// MaxResults is the page size; zero means DefaultMaxResults.
	MaxResults int

	// IncludeRoot keeps tweets that are not replies (the thread root).
	IncludeRoot bool
}

func (c Config) baseURL() string {
	if c.APIBaseURL == "" {
		return DefaultAPIBaseURL
	}
	return c.APIBaseURL
}

func (c Config) searchPath() string {
	if c.SearchTier == TierAll {
		return "/tweets/search/all"
	}
	return "/tweets/search/recent"
}

func (c Config) maxResults() int {
	if c.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return c.MaxResults
}

// readToken returns the token used for search requests.
func (c Config) readToken() (string, bool) {
	if c.BearerToken != "" {
		return c.BearerToken, true
	}
	if c.OAuthAccessToken != "" {
		return c.OAuthAccessToken, true
	}
	return "", false
}
