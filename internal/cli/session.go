package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/adapter/memory"
	"github.com/roach88/replydb/internal/adapter/threads"
	"github.com/roach88/replydb/internal/adapter/xapi"
	"github.com/roach88/replydb/internal/config"
	"github.com/roach88/replydb/internal/replydb"
)

// AdapterFactory builds the adapter for cfg.Platform.
type AdapterFactory func(cfg *config.Config, logger *slog.Logger, metrics *adapter.Metrics) (adapter.Adapter, error)

// NewAdapter is the default AdapterFactory.
func NewAdapter(cfg *config.Config, logger *slog.Logger, metrics *adapter.Metrics) (adapter.Adapter, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Platform {
	case adapter.PlatformX:
		return xapi.New(cfg.X.Adapter(),
			xapi.WithHTTPClient(client),
			xapi.WithLogger(logger),
			xapi.WithMetrics(metrics),
		), nil
	case adapter.PlatformThreads:
		return threads.New(cfg.Threads.Adapter(),
			threads.WithHTTPClient(client),
			threads.WithLogger(logger),
			threads.WithMetrics(metrics),
		), nil
	case adapter.PlatformMemory:
		return memory.New(memory.WithLogger(logger), memory.WithMetrics(metrics)), nil
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}

// session is the per-command wiring of config, logger, metrics and store.
type session struct {
	cfg         *config.Config
	logger      *slog.Logger
	registry    *prometheus.Registry
	db          *replydb.DB
	metricsFile string
}

// loadConfig reads the configuration and applies flag overrides.
// The result is not validated.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Read(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Platform != "" {
		cfg.Platform = o.Platform
	}
	if o.ThreadID != "" {
		cfg.ThreadID = o.ThreadID
	}
	return cfg, nil
}

// newLogger writes text logs to stderr: Info by default, Debug when
// verbose.
func (o *RootOptions) newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openSession loads and validates config, then builds the adapter and
// store for the configured thread.
func (o *RootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger := o.newLogger(cmd)
	registry := prometheus.NewRegistry()
	metrics := adapter.NewMetrics(registry)

	factory := o.AdapterFactory
	if factory == nil {
		factory = NewAdapter
	}
	ad, err := factory(cfg, logger, metrics)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create adapter", err)
	}

	db, err := replydb.New(replydb.Config{Adapter: ad, ThreadID: cfg.ThreadID, Logger: logger})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}

	logger.Debug("session opened",
		slog.String("platform", cfg.Platform),
		slog.String("thread", cfg.ThreadID),
	)

	return &session{
		cfg:         cfg,
		logger:      logger,
		registry:    registry,
		db:          db,
		metricsFile: o.MetricsFile,
	}, nil
}

// withSession opens a session, runs fn under the configured timeout and
// writes the metrics file afterwards, even when fn fails.
func (o *RootOptions) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := o.openSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Timeout)
	defer cancel()

	err = fn(ctx, s)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

// close flushes metrics to the metrics file, if one was requested.
func (s *session) close() error {
	if s.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.metricsFile, s.registry); err != nil {
		return WrapExitError(ExitCommandError, "failed to write metrics file", err)
	}
	s.logger.Debug("metrics written", slog.String("path", s.metricsFile))
	return nil
}

// storeError wraps a façade failure as a command error.
func storeError(message string, err error) error {
	return WrapExitError(ExitCommandError, message, err)
}
