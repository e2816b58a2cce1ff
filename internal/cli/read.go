package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/ir"
	"github.com/roach88/replydb/internal/replydb"
)

// ReadOptions holds flags for the read command.
type ReadOptions struct {
	*RootOptions
	Events bool
}

// ReadResult is the output of the read command.
type ReadResult struct {
	ThreadID    string            `json:"thread_id"`
	Records     []ir.StoredRecord `json:"records"`
	Accepted    []ir.Accepted     `json:"accepted,omitempty"`
	Fingerprint string            `json:"fingerprint"`
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Fetch the thread and print its records",
		Long: `Fetch every reply of the configured thread, replay the events they
carry and print the resulting records in id order.

Examples:
  replydb read --platform x --thread 1790000000000000000
  replydb read --events
  replydb read --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, s *session) error {
				return runRead(ctx, opts, s, cmd)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Events, "events", false, "also print the accepted events in replay order")

	return cmd
}

func runRead(ctx context.Context, opts *ReadOptions, s *session, cmd *cobra.Command) error {
	res, err := s.db.Read(ctx)
	if err != nil {
		return storeError("failed to read thread", err)
	}

	fingerprint, err := ir.ResultFingerprint(res)
	if err != nil {
		return storeError("failed to fingerprint thread", err)
	}

	out := ReadResult{
		ThreadID:    s.db.ThreadID(),
		Records:     sortedRecords(res.Store),
		Fingerprint: fingerprint,
	}
	if opts.Events {
		out.Accepted = res.Accepted
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(out)
	}

	w := cmd.OutOrStdout()
	printRecords(w, out.Records)
	if opts.Events {
		printAccepted(w, res.Accepted)
	}
	fmt.Fprintf(w, "\n%d record(s), %d accepted event(s) in thread %s\n", len(out.Records), len(res.Accepted), out.ThreadID)
	return nil
}

// sortedRecords lists store records in id order.
func sortedRecords(store ir.RecordStore) []ir.StoredRecord {
	records := make([]ir.StoredRecord, 0, len(store))
	for _, id := range store.SortedIDs() {
		records = append(records, store[id])
	}
	return records
}

func printRecords(w io.Writer, records []ir.StoredRecord) {
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %s\n", rec.ID, rec.Content)
		fmt.Fprintf(w, "    author=%s created=%s updated=%s", rec.AuthorID,
			replydb.FormatMillis(rec.CreatedAt), replydb.FormatMillis(rec.UpdatedAt))
		if rec.LikeCount != nil {
			fmt.Fprintf(w, " likes=%d", *rec.LikeCount)
		}
		fmt.Fprintln(w)
	}
}

func printAccepted(w io.Writer, accepted []ir.Accepted) {
	fmt.Fprintln(w, "\nAccepted events:")
	for i, a := range accepted {
		fmt.Fprintf(w, "  [%d] %s reply=%s %s\n", i+1, replydb.FormatMillis(a.Meta.CreatedAt), a.Meta.ReplyID, a.Meta.RawText)
	}
}
