package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/replydb/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Accepted []string // Accepted reply ids for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nAccepted replies:\n")
	for i, id := range e.Accepted {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, id)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertRecord:
		return assertRecord(result, a)
	case AssertRecordAbsent:
		return assertRecordAbsent(result, a)
	case AssertRecordCount:
		return assertCount(result, a, "record_count", len(result.Store))
	case AssertAcceptedCount:
		return assertCount(result, a, "accepted_count", len(result.Accepted))
	case AssertAcceptedOrder:
		return assertAcceptedOrder(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertRecord checks that a record exists and that every field the
// assertion sets matches.
func assertRecord(result *Result, a Assertion) error {
	rec, ok := result.Store[a.ID]
	if !ok {
		return newAssertionError(result, "record", fmt.Sprintf("record %s", a.ID), "not found")
	}

	if a.Content != nil {
		want, err := ir.MarshalCanonical(a.Content)
		if err != nil {
			return fmt.Errorf("expected content: %w", err)
		}
		got, err := ir.MarshalCanonical(rec.Content)
		if err != nil {
			return fmt.Errorf("record content: %w", err)
		}
		if !bytes.Equal(want, got) {
			return newAssertionError(result, "record",
				fmt.Sprintf("%s content %s", a.ID, want),
				fmt.Sprintf("%s content %s", a.ID, got))
		}
	}

	if a.AuthorID != "" && a.AuthorID != rec.AuthorID {
		return newAssertionError(result, "record",
			fmt.Sprintf("%s author_id %q", a.ID, a.AuthorID),
			fmt.Sprintf("%s author_id %q", a.ID, rec.AuthorID))
	}
	if a.CreatedAt != nil && *a.CreatedAt != rec.CreatedAt {
		return newAssertionError(result, "record",
			fmt.Sprintf("%s created_at %d", a.ID, *a.CreatedAt),
			fmt.Sprintf("%s created_at %d", a.ID, rec.CreatedAt))
	}
	if a.UpdatedAt != nil && *a.UpdatedAt != rec.UpdatedAt {
		return newAssertionError(result, "record",
			fmt.Sprintf("%s updated_at %d", a.ID, *a.UpdatedAt),
			fmt.Sprintf("%s updated_at %d", a.ID, rec.UpdatedAt))
	}
	if a.LikeCount != nil && (rec.LikeCount == nil || *a.LikeCount != *rec.LikeCount) {
		return newAssertionError(result, "record",
			fmt.Sprintf("%s like_count %d", a.ID, *a.LikeCount),
			fmt.Sprintf("%s like_count %s", a.ID, formatOptional(rec.LikeCount)))
	}

	return nil
}

func assertRecordAbsent(result *Result, a Assertion) error {
	if _, ok := result.Store[a.ID]; ok {
		return newAssertionError(result, "record_absent", fmt.Sprintf("no record %s", a.ID), "record present")
	}
	return nil
}

func assertCount(result *Result, a Assertion, kind string, actual int) error {
	if actual != *a.Count {
		return newAssertionError(result, kind, fmt.Sprintf("%d", *a.Count), fmt.Sprintf("%d", actual))
	}
	return nil
}

func assertAcceptedOrder(result *Result, a Assertion) error {
	actual := acceptedIDs(result)
	if !slices.Equal(actual, a.ReplyIDs) {
		return newAssertionError(result, "accepted_order",
			fmt.Sprintf("%v", a.ReplyIDs), fmt.Sprintf("%v", actual))
	}
	return nil
}

func newAssertionError(result *Result, kind, expected, actual string) *AssertionError {
	return &AssertionError{
		Type:     kind,
		Expected: expected,
		Actual:   actual,
		Accepted: acceptedIDs(result),
	}
}

func acceptedIDs(result *Result) []string {
	ids := make([]string, len(result.Accepted))
	for i, acc := range result.Accepted {
		ids[i] = acc.Meta.ReplyID
	}
	return ids
}

func formatOptional(n *int64) string {
	if n == nil {
		return "absent"
	}
	return fmt.Sprintf("%d", *n)
}
