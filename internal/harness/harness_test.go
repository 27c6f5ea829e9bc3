package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inline(name, circuit string, assertions ...Assertion) *Scenario {
	return &Scenario{
		Name:        name,
		Description: name,
		Circuit:     circuit,
		Assertions:  assertions,
	}
}

func TestRun_ScenarioA(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_a_removed.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "scenario_a_removed-0001", result.RunID)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, 1, result.Stats.Removed)
}

func TestRun_AllScenarioFilesPass(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_FailingAssertionsReported(t *testing.T) {
	s := inline("wrong", "OPENQASM 2.0;\nqreg q[2];\nswap q[0],q[1];\n",
		Assertion{Type: AssertDecision, Index: 0, Outcome: "replaced"},
		Assertion{Type: AssertDecision, Index: 3, Outcome: "removed"},
		Assertion{Type: AssertDecisionCount, Count: 2},
		Assertion{Type: AssertGateCount, Gate: "swap", Count: 1},
		Assertion{Type: AssertError},
	)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], `outcome="removed" (want "replaced")`)
	assert.Contains(t, result.Errors[1], "a decision at index 3")
	assert.Contains(t, result.Errors[2], "Expected: 2 decisions")
	assert.Contains(t, result.Errors[3], "Expected: 1 swap gate(s)")
	assert.Contains(t, result.Errors[4], "pass succeeded")
}

func TestRun_PassFailureWithoutErrorAssertion(t *testing.T) {
	s := inline("fails", "OPENQASM 2.0;\nqreg q[1];\nx q[0];\n",
		Assertion{Type: AssertGateCount, Gate: "x", Count: 1},
	)
	s.UnknownInputs = []int{3}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "pass failed")
	assert.Contains(t, result.Errors[1], "needs a successful pass")
	assert.Nil(t, result.Output)
}

func TestRun_ErrorCodeMismatch(t *testing.T) {
	s := inline("code", "OPENQASM 2.0;\nqreg q[1];\n",
		Assertion{Type: AssertError, Code: "UNSUPPORTED_GATE"},
	)
	s.UnknownInputs = []int{1}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "error code UNSUPPORTED_GATE")
}

func TestRun_EquivalentRejectsNonUnitary(t *testing.T) {
	s := inline("measured", "OPENQASM 2.0;\nqreg q[1];\ncreg c[1];\nmeasure q[0] -> c[0];\n",
		Assertion{Type: AssertEquivalent},
	)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "equivalent:")
}

func TestRun_BadCircuit(t *testing.T) {
	_, err := Run(inline("bad", "qreg q[1];\nfoo q[0];\n", Assertion{Type: AssertEquivalent}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load circuit")
}

func TestRun_CircuitNameDefaultsToScenario(t *testing.T) {
	result, err := Run(inline("named_by_scenario", "OPENQASM 2.0;\nqreg q[1];\n",
		Assertion{Type: AssertDecisionCount, Count: 0},
	))
	require.NoError(t, err)
	assert.Equal(t, "named_by_scenario", result.Input.Name)
}

func TestRun_DeterministicSnapshots(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_b_corrections.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAssertionError_Format(t *testing.T) {
	e := &AssertionError{
		Type:     AssertDecision,
		Expected: "x",
		Actual:   "y",
		Trace: []TraceEvent{
			{Seq: 1, NodeID: 4, Wires: [2]int{0, 1}, Outcome: "removed", Rewrite: "none"},
		},
	}
	msg := e.Error()
	assert.Contains(t, msg, "Assertion failed: decision")
	assert.Contains(t, msg, "[1] node 4 swap q[0],q[1]: removed none")
}
