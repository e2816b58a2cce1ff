package adapter

import (
	"errors"
	"fmt"
)

// Kind categorizes adapter failures.
type Kind string

const (
	// KindConfig indicates missing or unusable adapter configuration.
	KindConfig Kind = "config"

	// KindTransport indicates the request never produced a response.
	KindTransport Kind = "transport"

	// KindStatus indicates a non-2xx HTTP response.
	KindStatus Kind = "status"

	// KindUpstream indicates the platform returned an error payload.
	KindUpstream Kind = "upstream"

	// KindDecode indicates a body that is not the expected JSON.
	KindDecode Kind = "decode"

	// KindNormalization indicates every candidate item failed normalization.
	KindNormalization Kind = "normalization"

	// KindNoResultID indicates a post response without a new reply id.
	KindNoResultID Kind = "no_result_id"

	// KindTooLong indicates reply text over the platform limit.
	KindTooLong Kind = "too_long"

	// KindPagination indicates a reply listing with more pages than the
	// configured cap.
	KindPagination Kind = "pagination"
)

// Error is returned by every adapter operation.
type Error struct {
	// Platform is the adapter that failed ("x", "threads", "memory").
	Platform string

	// Op is the failing operation (OpFetch or OpPost).
	Op string

	// Kind identifies the failure category.
	Kind Kind

	// Status is the HTTP status for KindStatus, zero otherwise.
	Status int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Platform, e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error without an underlying cause.
func NewError(platform, op string, kind Kind, format string, args ...any) *Error {
	return &Error{
		Platform: platform,
		Op:       op,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WrapError creates an Error around cause.
func WrapError(platform, op string, kind Kind, cause error, format string, args ...any) *Error {
	e := NewError(platform, op, kind, format, args...)
	e.Err = cause
	return e
}

// IsKind reports whether err is an adapter Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf returns the Kind of an adapter error in err's chain.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}
