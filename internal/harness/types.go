package harness

import "github.com/roach88/replydb/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held and replay was order
	// independent.
	Pass bool `json:"pass"`

	// Replies is the thread as read back, in storage order.
	Replies []ir.ReplyRecord `json:"replies"`

	// Store and Accepted are the replay output.
	Store    ir.RecordStore `json:"store"`
	Accepted []ir.Accepted  `json:"accepted"`

	// Fingerprint is the combined store and accepted-log fingerprint.
	Fingerprint string `json:"fingerprint"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Replies:  []ir.ReplyRecord{},
		Store:    ir.RecordStore{},
		Accepted: []ir.Accepted{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
