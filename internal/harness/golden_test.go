package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replydb/internal/engine"
	"github.com/roach88/replydb/internal/ir"
)

func replayOf(replies []ir.ReplyRecord) ir.ReplayResult {
	return engine.Replay(replies)
}

func TestGoldenScenarios(t *testing.T) {
	for _, name := range []string{"insert_update_delete", "tie_break", "append_through_facade"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshotCanonicalMap(t *testing.T) {
	result := NewResult()
	result.Accepted = []ir.Accepted{
		{Event: ir.Event{Op: ir.OpInsert}, Meta: ir.ReplyMeta{ReplyID: "1"}},
		{Event: ir.Event{Op: ir.OpDelete, ID: ir.String("r_1")}, Meta: ir.ReplyMeta{ReplyID: "2"}},
	}

	snap := ResultSnapshot{ScenarioName: "s", Result: result}
	data, err := ir.MarshalCanonical(snap.toCanonicalMap())
	require.NoError(t, err)
	assert.Equal(t,
		`{"accepted":[{"op":"ins","reply_id":"1"},{"id":"r_1","op":"del","reply_id":"2"}],"records":{},"scenario_name":"s"}`,
		string(data))
}
