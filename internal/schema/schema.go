// Package schema validates record content against CUE definitions.
//
// Content stays opaque to the replay engine. Applications that want
// structure validate it here before appending, and filter records that do
// not conform when reading.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed todo.cue
var todoSource string

// Definitions in todo.cue.
const (
	TodoDefinition      = "#Todo"
	TodoPatchDefinition = "#TodoPatch"
)

// ValidationError describes content that does not satisfy a definition.
type ValidationError struct {
	Definition string `json:"definition"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Definition, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Definition, e.Message)
}

// Validator checks JSON content against one CUE definition.
//
// A Validator is not safe for concurrent use; cue.Context is not.
type Validator struct {
	ctx        *cue.Context
	def        cue.Value
	definition string
}

// Compile builds a validator for definition in source.
func Compile(source, definition string) (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(source)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	def := v.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return nil, fmt.Errorf("compile schema: definition %s not found", definition)
	}
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{ctx: ctx, def: def, definition: definition}, nil
}

// Todo returns a validator for inserted todo content.
func Todo() (*Validator, error) {
	return Compile(todoSource, TodoDefinition)
}

// TodoPatch returns a validator for todo update patches.
func TodoPatch() (*Validator, error) {
	return Compile(todoSource, TodoPatchDefinition)
}

// Definition returns the name of the definition being enforced.
func (v *Validator) Definition() string {
	return v.definition
}

// Validate checks content. It returns a *ValidationError for content that
// is not JSON or does not satisfy the definition.
func (v *Validator) Validate(content json.RawMessage) error {
	if !json.Valid(content) {
		return &ValidationError{Definition: v.definition, Message: "content is not valid JSON"}
	}

	data := v.ctx.CompileBytes(content)
	if err := data.Err(); err != nil {
		return v.validationError(err)
	}

	unified := v.def.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return v.validationError(err)
	}
	return nil
}

// Conforms reports whether content satisfies the definition.
func (v *Validator) Conforms(content json.RawMessage) bool {
	return v.Validate(content) == nil
}

// validationError reports the first CUE error with its field path.
func (v *Validator) validationError(err error) *ValidationError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Definition: v.definition, Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	return &ValidationError{
		Definition: v.definition,
		Field:      fieldPath(first.Path(), v.definition),
		Message:    fmt.Sprintf(format, args...),
	}
}

// fieldPath joins a CUE error path, dropping the definition selector.
func fieldPath(path []string, definition string) string {
	if len(path) > 0 && path[0] == definition {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
