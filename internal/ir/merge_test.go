package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeContent(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		patch    *string
		expected string
	}{
		{
			name:     "overwrites and retains keys",
			base:     `{"a":1,"b":2,"c":3}`,
			patch:    String(`{"b":20}`),
			expected: `{"a":1,"b":20,"c":3}`,
		},
		{
			name:     "appends new keys in patch order",
			base:     `{"a":1}`,
			patch:    String(`{"z":true,"b":"x"}`),
			expected: `{"a":1,"z":true,"b":"x"}`,
		},
		{
			name:     "nested objects are replaced not merged",
			base:     `{"meta":{"x":1,"y":2}}`,
			patch:    String(`{"meta":{"x":9}}`),
			expected: `{"meta":{"x":9}}`,
		},
		{
			name:     "null patch value overwrites",
			base:     `{"a":1}`,
			patch:    String(`{"a":null}`),
			expected: `{"a":null}`,
		},
		{
			name:     "empty patch copies base",
			base:     `{"a":1}`,
			patch:    String(`{}`),
			expected: `{"a":1}`,
		},
		{
			name:     "null patch contributes nothing",
			base:     `{"a":1}`,
			patch:    String(`null`),
			expected: `{"a":1}`,
		},
		{
			name:     "scalar patch contributes nothing",
			base:     `{"a":1}`,
			patch:    String(`5`),
			expected: `{"a":1}`,
		},
		{
			name:     "string patch is not split into characters",
			base:     `{"a":1}`,
			patch:    String(`"xy"`),
			expected: `{"a":1}`,
		},
		{
			name:     "array patch is not keyed by index",
			base:     `["p","q"]`,
			patch:    String(`["r"]`),
			expected: `{}`,
		},
		{
			name:     "non-object base contributes nothing",
			base:     `"plain"`,
			patch:    String(`{"a":1}`),
			expected: `{"a":1}`,
		},
		{
			name:     "null base becomes object",
			base:     `null`,
			patch:    String(`{"done":true}`),
			expected: `{"done":true}`,
		},
		{
			name:     "duplicate keys resolve last wins",
			base:     `{"a":1,"b":2,"a":3}`,
			patch:    String(`{"c":4}`),
			expected: `{"a":3,"b":2,"c":4}`,
		},
		{
			name:     "patch whitespace is compacted",
			base:     `{"a":1}`,
			patch:    String(`{ "a" : [ 1, 2 ] }`),
			expected: `{"a":[1,2]}`,
		},
		{
			name:     "keys keep html characters",
			base:     `{}`,
			patch:    String(`{"<k>":"&"}`),
			expected: `{"<k>":"&"}`,
		},
		{
			name:     "absent patch leaves base untouched",
			base:     `"plain"`,
			patch:    nil,
			expected: `"plain"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch json.RawMessage
			if tt.patch != nil {
				patch = json.RawMessage(*tt.patch)
			}
			got := MergeContent(json.RawMessage(tt.base), patch)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMergeContentDoesNotMutateInputs(t *testing.T) {
	base := json.RawMessage(`{"a":1,"b":2}`)
	patch := json.RawMessage(`{"b":3}`)

	_ = MergeContent(base, patch)

	assert.Equal(t, `{"a":1,"b":2}`, string(base))
	assert.Equal(t, `{"b":3}`, string(patch))
}
