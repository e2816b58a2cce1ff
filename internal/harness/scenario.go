package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/replydb/internal/ir"
)

// DefaultThreadID is used when a scenario names no thread.
const DefaultThreadID = "scenario-thread"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ThreadID defaults to DefaultThreadID.
	ThreadID string `yaml:"thread_id,omitempty"`

	// Replies seed the thread as they are. Texts need not be events.
	Replies []ir.ReplyRecord `yaml:"replies"`

	// Appends are event envelopes posted through the façade after seeding.
	Appends []string `yaml:"appends,omitempty"`

	// Assertions validate the replay result.
	Assertions []Assertion `yaml:"assertions"`
}

// Thread returns the scenario's thread id.
func (s *Scenario) Thread() string {
	if s.ThreadID == "" {
		return DefaultThreadID
	}
	return s.ThreadID
}

// Assertion types.
const (
	AssertRecord        = "record"
	AssertRecordAbsent  = "record_absent"
	AssertRecordCount   = "record_count"
	AssertAcceptedCount = "accepted_count"
	AssertAcceptedOrder = "accepted_order"
)

// Assertion validates the replay result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ID is the record id (record, record_absent).
	ID string `yaml:"id,omitempty"`

	// Content is compared as canonical JSON when set (record).
	Content any `yaml:"content,omitempty"`

	// Optional record fields (record).
	AuthorID  string `yaml:"author_id,omitempty"`
	CreatedAt *int64 `yaml:"created_at,omitempty"`
	UpdatedAt *int64 `yaml:"updated_at,omitempty"`
	LikeCount *int64 `yaml:"like_count,omitempty"`

	// Count is the expected size (record_count, accepted_count).
	Count *int `yaml:"count,omitempty"`

	// ReplyIDs is the expected accepted order (accepted_order).
	ReplyIDs []string `yaml:"reply_ids,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, ordered by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Replies) == 0 && len(s.Appends) == 0 {
		return fmt.Errorf("replies or appends are required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Replies))
	for i, r := range s.Replies {
		if r.ReplyID == "" {
			return fmt.Errorf("replies[%d]: reply_id is required", i)
		}
		if seen[r.ReplyID] {
			return fmt.Errorf("replies[%d]: duplicate reply_id %q", i, r.ReplyID)
		}
		seen[r.ReplyID] = true
	}

	for i, text := range s.Appends {
		if !ir.IsEvent(text) {
			return fmt.Errorf("appends[%d]: not a valid event envelope", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRecord, AssertRecordAbsent:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
	case AssertRecordCount, AssertAcceptedCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertAcceptedOrder:
		if a.ReplyIDs == nil {
			return fmt.Errorf("assertions[%d]: reply_ids is required for accepted_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
