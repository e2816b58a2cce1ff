package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/adapter"
	"github.com/roach88/replydb/internal/schema"
	"github.com/roach88/replydb/internal/todo"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"reply_id": "42"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"reply_id": "42"}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONNoHTMLEscaping(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success("<b>&</b>"))
	assert.Contains(t, buf.String(), "<b>&</b>")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E_COMMAND", "invalid config", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_COMMAND", resp.Error.Code)
	assert.Equal(t, "invalid config", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"platform": "x", "status": "429"}
	require.NoError(t, formatter.Error("E_ADAPTER_STATUS", "fetch failed", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, map[string]any{"platform": "x", "status": "429"}, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("2 records"))
	assert.Equal(t, "2 records\n", buf.String())
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "text",
		Writer:    out,
		ErrWriter: errOut,
	}

	require.NoError(t, formatter.Error("E_COMMAND", "thread id is required", map[string]string{"hint": "--thread"}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E_COMMAND]: thread id is required")
	assert.NotContains(t, errOut.String(), "Details:", "details only in verbose mode")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error("E_COMMAND", "failed", map[string]string{"file": "replies.json"}))
	assert.Contains(t, buf.String(), "Error [E_COMMAND]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("fetched %d replies", 3)

			if tt.wantLog {
				assert.Contains(t, buf.String(), "fetched 3 replies")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(reportedFailure("mismatch")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestExitErrorMessage(t *testing.T) {
	cause := errors.New("no such file")
	err := WrapExitError(ExitCommandError, "failed to read replies", cause)

	assert.Equal(t, "failed to read replies: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad", NewExitError(ExitCommandError, "bad").Error())
}

func TestErrorCode(t *testing.T) {
	adapterErr := adapter.NewError(adapter.PlatformX, adapter.OpFetch, adapter.KindStatus, "status 429")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"adapter kind", WrapExitError(ExitCommandError, "failed to read thread", adapterErr), "E_ADAPTER_STATUS"},
		{"too long", adapter.NewError(adapter.PlatformX, adapter.OpPost, adapter.KindTooLong, "too long"), "E_ADAPTER_TOO_LONG"},
		{"pagination", adapter.NewError(adapter.PlatformThreads, adapter.OpFetch, adapter.KindPagination, "too many pages"), "E_ADAPTER_PAGINATION"},
		{"schema", WrapExitError(ExitCommandError, "invalid item", &schema.ValidationError{Definition: "#Todo", Message: "bad"}), "E_SCHEMA"},
		{"empty content", WrapExitError(ExitCommandError, "invalid item", todo.ErrEmptyContent), "E_EMPTY_CONTENT"},
		{"command", NewExitError(ExitCommandError, "bad flag"), "E_COMMAND"},
		{"failure", errors.New("boom"), "E_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
