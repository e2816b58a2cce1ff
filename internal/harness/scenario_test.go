package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/insert_update_delete.yaml")
	require.NoError(t, err)

	assert.Equal(t, "insert_update_delete", s.Name)
	assert.Equal(t, "thread-1", s.Thread())
	require.Len(t, s.Replies, 4)
	assert.Equal(t, "alice", s.Replies[0].AuthorID)
	require.NotNil(t, s.Replies[0].LikeCount)
	assert.Equal(t, int64(2), *s.Replies[0].LikeCount)
	assert.Nil(t, s.Replies[1].LikeCount)
	assert.Len(t, s.Assertions, 4)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.IsIncreasing(t, names)
}

func TestScenarioDefaultThread(t *testing.T) {
	s := &Scenario{}
	assert.Equal(t, DefaultThreadID, s.Thread())
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled assertions key"
replies:
  - reply_id: "1"
    created_at: 1
    text: hi
assertion:
  - type: record_count
    count: 0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: record_count, count: 0}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: record_count, count: 0}]",
			wantErr: "description is required",
		},
		{
			name:    "no replies or appends",
			yaml:    "name: n\ndescription: d\nassertions: [{type: record_count, count: 0}]",
			wantErr: "replies or appends are required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]",
			wantErr: "assertions list is required",
		},
		{
			name:    "empty reply id",
			yaml:    "name: n\ndescription: d\nreplies: [{text: x}]\nassertions: [{type: record_count, count: 0}]",
			wantErr: "replies[0]: reply_id is required",
		},
		{
			name:    "duplicate reply id",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}, {reply_id: '1', text: y}]\nassertions: [{type: record_count, count: 0}]",
			wantErr: `duplicate reply_id "1"`,
		},
		{
			name:    "invalid append",
			yaml:    "name: n\ndescription: d\nappends: ['hello']\nassertions: [{type: record_count, count: 0}]",
			wantErr: "appends[0]: not a valid event envelope",
		},
		{
			name:    "record without id",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: record}]",
			wantErr: "id is required for record",
		},
		{
			name:    "count missing",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: accepted_count}]",
			wantErr: "count is required for accepted_count",
		},
		{
			name:    "negative count",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: record_count, count: -1}]",
			wantErr: "count must be non-negative",
		},
		{
			name:    "order missing ids",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: accepted_order}]",
			wantErr: "reply_ids is required",
		},
		{
			name:    "unknown type",
			yaml:    "name: n\ndescription: d\nreplies: [{reply_id: '1', text: x}]\nassertions: [{type: trace_contains}]",
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenariosReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\n"), 0o600))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
