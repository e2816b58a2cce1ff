package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/replydb/internal/ir"
)

// ResultSnapshot is the golden form of a scenario result: the
// materialized records and the accepted log in replay order.
type ResultSnapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts the snapshot to generic values for
// ir.MarshalCanonical.
func (s *ResultSnapshot) toCanonicalMap() map[string]any {
	accepted := make([]any, len(s.Result.Accepted))
	for i, acc := range s.Result.Accepted {
		entry := map[string]any{
			"reply_id": acc.Meta.ReplyID,
			"op":       string(acc.Event.Op),
		}
		if acc.Event.ID != nil {
			entry["id"] = *acc.Event.ID
		}
		accepted[i] = entry
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"accepted":      accepted,
		"records":       ir.StoreDocument(s.Result.Store),
	}
}

// GoldenDir holds golden files next to the scenarios they belong to.
const GoldenDir = "testdata/scenarios/golden"

// MarshalGolden returns the canonical golden form of result.
func MarshalGolden(scenarioName string, result *Result) ([]byte, error) {
	snapshot := ResultSnapshot{ScenarioName: scenarioName, Result: result}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its result against
// GoldenDir/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalGolden(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
