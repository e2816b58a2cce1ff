package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/replydb/internal/schema"
	"github.com/roach88/replydb/internal/todo"
)

// TodoChange is the output of a todo mutation.
type TodoChange struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// NewTodoCommand creates the todo command and its subcommands.
func NewTodoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage a todo list kept in the thread",
		Long: `Treat the configured thread as a todo list. Items are records whose
content is {"content": <text>, "done": <bool>}; records of any other shape
are ignored.

Examples:
  replydb todo add "Buy milk"
  replydb todo done r_1790000000000000001
  replydb todo list`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTodoListCommand(rootOpts))
	cmd.AddCommand(newTodoAddCommand(rootOpts))
	cmd.AddCommand(newTodoDoneCommand(rootOpts, "done", true))
	cmd.AddCommand(newTodoDoneCommand(rootOpts, "undone", false))
	cmd.AddCommand(newTodoRenameCommand(rootOpts))
	cmd.AddCommand(newTodoRemoveCommand(rootOpts))

	return cmd
}

// withTodoList runs fn against the todo list of the configured thread.
func withTodoList(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, l *todo.List) error) error {
	return opts.withSession(cmd, func(ctx context.Context, s *session) error {
		l, err := todo.NewList(s.db, s.logger)
		if err != nil {
			return storeError("failed to open todo list", err)
		}
		return fn(ctx, l)
	})
}

// todoError maps todo validation failures to command errors.
func todoError(message string, err error) error {
	var ve *schema.ValidationError
	if errors.Is(err, todo.ErrEmptyContent) || errors.As(err, &ve) {
		return WrapExitError(ExitCommandError, "invalid item", err)
	}
	return storeError(message, err)
}

func reportChange(opts *RootOptions, cmd *cobra.Command, change TodoChange) error {
	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(change)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", change.Action, change.ID)
	return nil
}

func newTodoListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List todo items oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTodoList(opts, cmd, func(ctx context.Context, l *todo.List) error {
				items, err := l.Items(ctx)
				if err != nil {
					return storeError("failed to read todo list", err)
				}

				f := opts.formatter(cmd)
				if f.IsJSON() {
					return f.Success(items)
				}

				w := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(w, "Nothing to do.")
					return nil
				}
				for _, it := range items {
					mark := " "
					if it.Done {
						mark = "x"
					}
					fmt.Fprintf(w, "[%s] %s  %s\n", mark, it.ID, it.Content)
				}
				return nil
			})
		},
	}
}

func newTodoAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <text...>",
		Short:         "Add an open item",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withTodoList(opts, cmd, func(ctx context.Context, l *todo.List) error {
				id, err := l.Add(ctx, text)
				if err != nil {
					return todoError("failed to add item", err)
				}
				return reportChange(opts, cmd, TodoChange{Action: "added", ID: id})
			})
		},
	}
}

func newTodoDoneCommand(opts *RootOptions, use string, done bool) *cobra.Command {
	short := "Mark an item done"
	action := "done"
	if !done {
		short = "Mark an item open again"
		action = "reopened"
	}
	return &cobra.Command{
		Use:           use + " <id>",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTodoList(opts, cmd, func(ctx context.Context, l *todo.List) error {
				if err := l.SetDone(ctx, args[0], done); err != nil {
					return todoError("failed to update item", err)
				}
				return reportChange(opts, cmd, TodoChange{Action: action, ID: args[0]})
			})
		},
	}
}

func newTodoRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <id> <text...>",
		Short:         "Replace the text of an item",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return withTodoList(opts, cmd, func(ctx context.Context, l *todo.List) error {
				if err := l.Rename(ctx, args[0], text); err != nil {
					return todoError("failed to rename item", err)
				}
				return reportChange(opts, cmd, TodoChange{Action: "renamed", ID: args[0]})
			})
		},
	}
}

func newTodoRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Remove an item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTodoList(opts, cmd, func(ctx context.Context, l *todo.List) error {
				if err := l.Remove(ctx, args[0]); err != nil {
					return todoError("failed to remove item", err)
				}
				return reportChange(opts, cmd, TodoChange{Action: "removed", ID: args[0]})
			})
		},
	}
}
