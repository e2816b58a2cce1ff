package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/archive"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Archive string
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	ThreadID string          `json:"thread_id"`
	Entries  []archive.Entry `json:"entries"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived snapshots of the thread",
		Long: `List the snapshots archived for the configured thread, oldest first.

The platform is not contacted; only the archive is read.

Examples:
  replydb history --thread 1790000000000000000 --archive replydb.db
  replydb history --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Archive, "archive", "", "SQLite archive path (defaults to archive.path)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if cfg.ThreadID == "" {
		return NewExitError(ExitCommandError, "thread id is required (--thread or thread_id)")
	}
	path := opts.Archive
	if path == "" {
		path = cfg.Archive.Path
	}
	if path == "" {
		return NewExitError(ExitCommandError, "archive path is required (--archive or archive.path)")
	}

	a, err := archive.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer a.Close()

	entries, err := a.List(cmd.Context(), cfg.ThreadID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(HistoryResult{ThreadID: cfg.ThreadID, Entries: entries})
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(w, "No snapshots archived for thread %s.\n", cfg.ThreadID)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "#%d  %s  records=%d events=%d  %s\n",
			e.ID, e.TakenAt, e.RecordCount, e.EventCount, e.Fingerprint)
	}
	return nil
}
