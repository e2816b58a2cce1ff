package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/ir"
)

// AppendResult is the output of the append command.
type AppendResult struct {
	ReplyID  string `json:"reply_id"`
	RecordID string `json:"record_id,omitempty"`
}

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <event-json|->",
		Short: "Post an event as a reply",
		Long: `Validate an event envelope and post it to the configured thread.

The envelope is checked before anything is posted; text that replay would
ignore is rejected. Use - to read the envelope from stdin.

Examples:
  replydb append '{"v":1,"op":"ins","content":{"task":"Buy milk"}}'
  replydb append '{"v":1,"op":"upd","id":"r_123","content":{"done":true}}'
  echo '{"v":1,"op":"del","id":"r_123"}' | replydb append -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := eventArg(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			ev, ok := ir.ParseEvent(text)
			if !ok {
				return NewExitError(ExitCommandError,
					`invalid event envelope: want {"v":1,"op":"ins"|"upd"|"del",...} with content for ins and a string id for upd/del`)
			}

			return rootOpts.withSession(cmd, func(ctx context.Context, s *session) error {
				return runAppend(ctx, rootOpts, s, ev, cmd)
			})
		},
	}

	return cmd
}

// eventArg returns the envelope text, reading stdin for "-".
func eventArg(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read stdin", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runAppend(ctx context.Context, opts *RootOptions, s *session, ev ir.Event, cmd *cobra.Command) error {
	res, err := s.db.Append(ctx, ev)
	if err != nil {
		return storeError("failed to append event", err)
	}

	out := AppendResult{ReplyID: res.ReplyID}
	if ev.Op == ir.OpInsert {
		out.RecordID = ir.DeriveRecordID(res.ReplyID)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Posted reply %s\n", out.ReplyID)
	if out.RecordID != "" {
		fmt.Fprintf(w, "Record id: %s\n", out.RecordID)
	}
	return nil
}
