package threads

// DefaultGraphQLEndpoint is the Threads web GraphQL endpoint.
const DefaultGraphQLEndpoint = "https://www.threads.com/api/graphql"

// AppID is sent as X-IG-App-ID on every request.
const AppID = "238260118697367"

// DefaultMaxPages bounds reply pagination.
const DefaultMaxPages = 50

// Config configures the Threads adapter.
//
// Two modes are supported. Template mode replays request bodies captured
// from a browser session (ReadRequestBody / WriteRequestBody) with Cookie
// for auth. Legacy mode builds doc_id + variables bodies from ReadDocID /
// WriteDocID and sends Headers verbatim.
type Config struct {
	GraphQLEndpoint string

	ReadRequestBody  string
	WriteRequestBody string
	Cookie           string

	ReadDocID  string
	WriteDocID string
	Headers    map[string]string

	// MaxPages bounds how many reply pages one fetch follows; zero means
	// DefaultMaxPages.
	MaxPages int

	// IncludeRoot keeps the thread's own post (line_type "squiggle").
	IncludeRoot bool
}

func (c Config) endpoint() string {
	if c.GraphQLEndpoint == "" {
		return DefaultGraphQLEndpoint
	}
	return c.GraphQLEndpoint
}

func (c Config) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}

// cookie returns the configured cookie, falling back to Headers["Cookie"].
func (c Config) cookie() string {
	if c.Cookie != "" {
		return c.Cookie
	}
	return c.Headers["Cookie"]
}

func (c Config) writeDocID() string {
	if c.WriteDocID != "" {
		return c.WriteDocID
	}
	return c.ReadDocID
}
