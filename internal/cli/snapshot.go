package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/archive"
	"github.com/roach88/replydb/internal/replydb"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Out     string
	Archive string
}

// SnapshotResult is the output of the snapshot command.
type SnapshotResult struct {
	Metadata  replydb.SnapshotMetadata `json:"metadata"`
	Out       string                   `json:"out,omitempty"`
	ArchiveID int64                    `json:"archive_id,omitempty"`
	Archived  bool                     `json:"archived"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the current state of the thread",
		Long: `Read the thread and export its records and accepted events as a
snapshot document.

The document is written to --out, or printed when no destination is given.
With --archive (or archive.path in the config) the snapshot is also stored
in a SQLite archive; a snapshot whose fingerprint is already archived for
the thread is not stored twice.

Examples:
  replydb snapshot --out snapshot.json
  replydb snapshot --archive replydb.db
  replydb snapshot --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				return runSnapshot(ctx, opts, s, cmd)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the snapshot document to this file")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "SQLite archive path (defaults to archive.path)")

	return cmd
}

func runSnapshot(ctx context.Context, opts *SnapshotOptions, s *session, cmd *cobra.Command) error {
	res, err := s.db.Read(ctx)
	if err != nil {
		return storeError("failed to read thread", err)
	}

	snap, err := replydb.NewSnapshot(s.db.ThreadID(), res, opts.now())
	if err != nil {
		return storeError("failed to build snapshot", err)
	}

	out := SnapshotResult{Metadata: snap.Metadata, Out: opts.Out}
	f := opts.formatter(cmd)

	doc, err := encodeSnapshot(snap)
	if err != nil {
		return storeError("failed to encode snapshot", err)
	}
	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, doc, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write snapshot", err)
		}
	}

	archivePath := opts.Archive
	if archivePath == "" {
		archivePath = s.cfg.Archive.Path
	}
	if archivePath != "" {
		id, inserted, err := archiveSnapshot(ctx, archivePath, snap)
		if err != nil {
			return err
		}
		out.ArchiveID = id
		out.Archived = inserted
		s.logger.Info("snapshot archived",
			slog.String("path", archivePath),
			slog.Int64("id", id),
			slog.Bool("inserted", inserted),
		)
	}

	if f.IsJSON() {
		if opts.Out == "" && archivePath == "" {
			return f.Success(snap)
		}
		return f.Success(out)
	}

	w := cmd.OutOrStdout()
	if opts.Out == "" && archivePath == "" {
		_, err := w.Write(doc)
		return err
	}
	fmt.Fprintf(w, "Snapshot of thread %s: %d record(s), %d event(s)\n",
		snap.Metadata.ThreadID, snap.Metadata.RecordCount, snap.Metadata.EventCount)
	fmt.Fprintf(w, "  fingerprint: %s\n", snap.Metadata.Fingerprint)
	if opts.Out != "" {
		fmt.Fprintf(w, "  written to:  %s\n", opts.Out)
	}
	if archivePath != "" {
		state := "unchanged"
		if out.Archived {
			state = "inserted"
		}
		fmt.Fprintf(w, "  archive:     %s (entry %d, %s)\n", archivePath, out.ArchiveID, state)
	}
	return nil
}

// encodeSnapshot renders snap as indented JSON with a trailing newline.
func encodeSnapshot(snap replydb.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func archiveSnapshot(ctx context.Context, path string, snap replydb.Snapshot) (int64, bool, error) {
	a, err := archive.Open(path)
	if err != nil {
		return 0, false, WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer a.Close()

	id, inserted, err := a.Write(ctx, snap)
	if err != nil {
		return 0, false, WrapExitError(ExitCommandError, "failed to archive snapshot", err)
	}
	return id, inserted, nil
}
