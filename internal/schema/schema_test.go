package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoAcceptsValidContent(t *testing.T) {
	v, err := Todo()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(json.RawMessage(`{"content":"Buy milk","done":false}`)))
	assert.True(t, v.Conforms(json.RawMessage(`{"done":true,"content":"x"}`)))
}

func TestTodoRejects(t *testing.T) {
	v, err := Todo()
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"missing done", `{"content":"Buy milk"}`, "done"},
		{"wrong type", `{"content":"Buy milk","done":"yes"}`, "done"},
		{"blank content", `{"content":"   ","done":false}`, "content"},
		{"extra field", `{"content":"x","done":false,"priority":1}`, "priority"},
		{"not an object", `"Buy milk"`, ""},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(json.RawMessage(tt.content))
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, TodoDefinition, ve.Definition)
			if tt.field != "" {
				assert.Equal(t, tt.field, ve.Field)
			}
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestTodoRejectsInvalidJSON(t *testing.T) {
	v, err := Todo()
	require.NoError(t, err)

	err = v.Validate(json.RawMessage(`{oops`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content is not valid JSON", ve.Message)
}

func TestTodoPatch(t *testing.T) {
	v, err := TodoPatch()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(json.RawMessage(`{}`)))
	assert.NoError(t, v.Validate(json.RawMessage(`{"done":true}`)))
	assert.NoError(t, v.Validate(json.RawMessage(`{"content":"renamed"}`)))
	assert.Error(t, v.Validate(json.RawMessage(`{"content":""}`)))
	assert.Error(t, v.Validate(json.RawMessage(`{"owner":"bob"}`)))
}

func TestCompileUnknownDefinition(t *testing.T) {
	_, err := Compile(todoSource, "#Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#Missing")
}

func TestCompileInvalidSource(t *testing.T) {
	_, err := Compile(`#Broken: {`, "#Broken")
	require.Error(t, err)
}

func TestCustomDefinition(t *testing.T) {
	v, err := Compile(`#Counter: { n: int & >=0 }`, "#Counter")
	require.NoError(t, err)
	assert.Equal(t, "#Counter", v.Definition())

	assert.NoError(t, v.Validate(json.RawMessage(`{"n":3}`)))
	assert.Error(t, v.Validate(json.RawMessage(`{"n":-1}`)))
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "#Todo: done: conflicting values", (&ValidationError{Definition: "#Todo", Field: "done", Message: "conflicting values"}).Error())
	assert.Equal(t, "#Todo: bad", (&ValidationError{Definition: "#Todo", Message: "bad"}).Error())
}
