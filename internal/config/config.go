// Package config loads ReplyDB settings from YAML and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/adapter/threads"
	"github.com/roach88/replydb/internal/adapter/xapi"
)

// PathEnv names the environment variable holding a config file path.
const PathEnv = "REPLYDB_CONFIG"

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "replydb.yaml"

// Config is the root configuration.
//
// Source priority:
//  1. explicit path passed to Load/Read;
//  2. the REPLYDB_CONFIG environment variable;
//  3. ./replydb.yaml;
//  4. environment variables only.
//
// Environment variables are overlaid on values read from a file.
type Config struct {
	Platform string        `yaml:"platform" env:"REPLYDB_PLATFORM"`
	ThreadID string        `yaml:"thread_id" env:"REPLYDB_THREAD_ID"`
	Timeout  time.Duration `yaml:"timeout" env:"REPLYDB_TIMEOUT" env-default:"30s"`
	X        XConfig       `yaml:"x"`
	Threads  ThreadsConfig `yaml:"threads"`
	Archive  ArchiveConfig `yaml:"archive"`
}

// XConfig holds X API credentials and search settings.
type XConfig struct {
	APIBaseURL       string `yaml:"api_base_url" env:"X_API_BASE_URL"`
	BearerToken      string `yaml:"bearer_token" env:"X_BEARER_TOKEN"`
	OAuthAccessToken string `yaml:"oauth_access_token" env:"X_OAUTH_ACCESS_TOKEN"`
	SearchTier       string `yaml:"search_tier" env:"X_SEARCH_TIER" env-default:"recent"`
	MaxResults       int    `yaml:"max_results" env:"X_MAX_RESULTS" env-default:"100"`
	IncludeRoot      bool   `yaml:"include_root" env:"X_INCLUDE_ROOT"`
}

// ThreadsConfig holds Threads GraphQL request settings.
type ThreadsConfig struct {
	GraphQLEndpoint  string            `yaml:"graphql_endpoint" env:"THREADS_GRAPHQL_ENDPOINT"`
	ReadRequestBody  string            `yaml:"read_request_body" env:"THREADS_READ_REQUEST_BODY"`
	WriteRequestBody string            `yaml:"write_request_body" env:"THREADS_WRITE_REQUEST_BODY"`
	Cookie           string            `yaml:"cookie" env:"THREADS_COOKIE"`
	ReadDocID        string            `yaml:"read_doc_id" env:"THREADS_READ_DOC_ID"`
	WriteDocID       string            `yaml:"write_doc_id" env:"THREADS_WRITE_DOC_ID"`
	Headers          map[string]string `yaml:"headers" env:"THREADS_HEADERS"`
	MaxPages         int               `yaml:"max_pages" env:"THREADS_MAX_PAGES" env-default:"50"`
	IncludeRoot      bool              `yaml:"include_root" env:"THREADS_INCLUDE_ROOT"`
}

// ArchiveConfig locates the snapshot archive.
type ArchiveConfig struct {
	Path string `yaml:"path" env:"REPLYDB_ARCHIVE_PATH"`
}

// Adapter converts the X section to adapter configuration.
func (c XConfig) Adapter() xapi.Config {
	return xapi.Config{
		APIBaseURL:       c.APIBaseURL,
		BearerToken:      c.BearerToken,
		OAuthAccessToken: c.OAuthAccessToken,
		SearchTier:       c.SearchTier,
		MaxResults:       c.MaxResults,
		IncludeRoot:      c.IncludeRoot,
	}
}

// Adapter converts the Threads section to adapter configuration.
func (c ThreadsConfig) Adapter() threads.Config {
	return threads.Config{
		GraphQLEndpoint:  c.GraphQLEndpoint,
		ReadRequestBody:  c.ReadRequestBody,
		WriteRequestBody: c.WriteRequestBody,
		Cookie:           c.Cookie,
		ReadDocID:        c.ReadDocID,
		WriteDocID:       c.WriteDocID,
		Headers:          c.Headers,
		MaxPages:         c.MaxPages,
		IncludeRoot:      c.IncludeRoot,
	}
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads and validates the configuration.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads the configuration by source priority without validating it,
// so callers can apply overrides first.
func Read(path string) (*Config, error) {
	if path != "" {
		return readFile(path)
	}

	if envPath := os.Getenv(PathEnv); envPath != "" {
		return readFile(envPath)
	}

	if _, err := os.Stat(DefaultFile); err == nil {
		return readFile(DefaultFile)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}

// readFile reads a YAML file and overlays the environment.
func readFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("overlay env: %w", err)
	}
	return &cfg, nil
}

// Validate checks the platform and its prerequisites.
func (c *Config) Validate() error {
	if c.ThreadID == "" {
		return errors.New("thread_id is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}

	switch c.Platform {
	case adapter.PlatformX:
		return c.X.validate()
	case adapter.PlatformThreads:
		return c.Threads.validate()
	case adapter.PlatformMemory:
		return nil
	case "":
		return errors.New("platform is required (x, threads or memory)")
	default:
		return fmt.Errorf("unknown platform %q (want x, threads or memory)", c.Platform)
	}
}

func (c XConfig) validate() error {
	if c.BearerToken == "" && c.OAuthAccessToken == "" {
		return errors.New("x.bearer_token or x.oauth_access_token is required")
	}
	if c.SearchTier != "" && c.SearchTier != xapi.TierRecent && c.SearchTier != xapi.TierAll {
		return fmt.Errorf("x.search_tier must be %q or %q", xapi.TierRecent, xapi.TierAll)
	}
	if c.MaxResults < 0 {
		return errors.New("x.max_results must be >= 0")
	}
	return nil
}

func (c ThreadsConfig) validate() error {
	if c.ReadRequestBody == "" && c.ReadDocID == "" {
		return errors.New("threads.read_request_body or threads.read_doc_id is required")
	}
	if c.MaxPages < 0 {
		return errors.New("threads.max_pages must be >= 0")
	}
	return nil
}
