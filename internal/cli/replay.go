package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/replydb/internal/engine"
	"github.com/roach88/replydb/internal/ir"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	ShowRecords bool
}

// ReplayReport holds the outcome of an offline replay.
type ReplayReport struct {
	Source        string            `json:"source"`
	Replies       int               `json:"replies"`
	Accepted      int               `json:"accepted"`
	RecordCount   int               `json:"record_count"`
	Fingerprint   string            `json:"fingerprint"`
	Reversed      string            `json:"reversed_fingerprint"`
	Deterministic bool              `json:"deterministic"`
	Records       []ir.StoredRecord `json:"records,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [file|-]",
		Short: "Replay exported replies and verify determinism",
		Long: `Replay a file of reply records without contacting any platform.

The file holds a JSON array of replies (replyId, authorId, text, createdAt,
likeCount) or a YAML list using reply_id, author_id, text, created_at and
like_count. The replies are replayed in the given order and reversed; both
runs must produce the same fingerprint.

Exit codes:
  0 - Replay is order independent
  1 - Fingerprints differ between input orders
  2 - Command error (file not found, malformed input)

Examples:
  replydb replay replies.json
  replydb replay replies.yaml --records
  cat replies.json | replydb replay - --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return runReplay(opts, source, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowRecords, "records", false, "include the materialized records in the output")

	return cmd
}

func runReplay(opts *ReplayOptions, source string, cmd *cobra.Command) error {
	data, err := readSource(source, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read replies", err)
	}

	replies, err := decodeReplies(data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode replies", err)
	}

	report, err := replayReport(source, replies)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint replay", err)
	}
	if opts.ShowRecords {
		report.Records = sortedRecords(engine.Replay(replies).Store)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		if err := f.Success(report); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd.OutOrStdout(), report)
	}

	if !report.Deterministic {
		return reportedFailure("replay depends on input order")
	}
	return nil
}

func readSource(source string, stdin io.Reader) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(source)
}

// decodeReplies accepts a JSON array or a YAML list of reply records.
func decodeReplies(data []byte) ([]ir.ReplyRecord, error) {
	var replies []ir.ReplyRecord

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []ir.ReplyRecord{}, nil
	}
	if trimmed[0] != '[' || json.Unmarshal(trimmed, &replies) != nil {
		replies = nil
		if err := yaml.Unmarshal(trimmed, &replies); err != nil {
			return nil, err
		}
	}
	for i, r := range replies {
		if r.ReplyID == "" {
			return nil, fmt.Errorf("reply %d: missing reply id", i)
		}
	}
	return replies, nil
}

func replayReport(source string, replies []ir.ReplyRecord) (ReplayReport, error) {
	res := engine.Replay(replies)
	forward, err := ir.ResultFingerprint(res)
	if err != nil {
		return ReplayReport{}, err
	}

	reversed := slices.Clone(replies)
	slices.Reverse(reversed)
	backward, err := engine.Fingerprint(reversed)
	if err != nil {
		return ReplayReport{}, err
	}

	return ReplayReport{
		Source:        source,
		Replies:       len(replies),
		Accepted:      len(res.Accepted),
		RecordCount:   len(res.Store),
		Fingerprint:   forward,
		Reversed:      backward,
		Deterministic: forward == backward,
	}, nil
}

func outputReplayText(w io.Writer, r ReplayReport) {
	fmt.Fprintf(w, "Replayed %d replies from %s\n", r.Replies, r.Source)
	fmt.Fprintf(w, "  accepted events: %d\n", r.Accepted)
	fmt.Fprintf(w, "  records:         %d\n", r.RecordCount)
	fmt.Fprintf(w, "  fingerprint:     %s\n", r.Fingerprint)

	if len(r.Records) > 0 {
		fmt.Fprintln(w)
		printRecords(w, r.Records)
	}

	fmt.Fprintln(w)
	if r.Deterministic {
		fmt.Fprintln(w, "✓ Replay is order independent")
		return
	}
	fmt.Fprintf(w, "✗ Reversed input produced %s\n", r.Reversed)
}
