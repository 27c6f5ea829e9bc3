package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/qasm"
)

// GoldenDir is where golden traces live, relative to the test's package.
const GoldenDir = "testdata/golden"

// TraceSnapshot captures everything a scenario run produced.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	RunID        string
	Trace        []TraceEvent
	Result       *Result
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization, since ir.MarshalCanonical only handles primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	decisions := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"node_id": ev.NodeID,
			"wires":   []any{ev.Wires[0], ev.Wires[1]},
			"outcome": ev.Outcome,
			"rewrite": ev.Rewrite,
			"states":  []any{ev.States[0], ev.States[1]},
		}
		if ev.Orientation != "" {
			m["orientation"] = ev.Orientation
		}
		if ev.Basis != "" {
			m["basis"] = ev.Basis
		}
		if ev.Replacement != "" {
			m["replacement"] = ev.Replacement
		}
		decisions[i] = m
	}

	r := s.Result
	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"decisions":     decisions,
		"stats": map[string]any{
			"swaps":     r.Stats.Swaps,
			"removed":   r.Stats.Removed,
			"replaced":  r.Stats.Replaced,
			"unchanged": r.Stats.Unchanged,
		},
	}
	if r.Output != nil {
		out["output"] = qasm.Format(r.Output)
	}
	if r.PassErr != nil {
		out["error_code"] = r.ErrorCode
	}
	return out
}

// Snapshot renders a result as canonical JSON.
func Snapshot(name string, result *Result) ([]byte, error) {
	snap := TraceSnapshot{
		ScenarioName: name,
		RunID:        result.RunID,
		Trace:        result.Trace,
		Result:       result,
	}
	return ir.MarshalCanonical(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
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
