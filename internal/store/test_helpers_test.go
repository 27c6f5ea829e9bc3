package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string) Run {
	return Run{
		ID:          id,
		CircuitName: "test",
		NumQubits:   2,
		InputHash:   "in-hash",
		OutputHash:  "out-hash",
		Status:      StatusOK,
		Options:     RunOptions{UnknownInputs: []int{}},
		PassVersion: "0.1.0",
		IRVersion:   "1",
	}
}

func createTestDecision(runID string, seq int64, outcome string) DecisionRecord {
	return DecisionRecord{
		ID:      runID + "-" + outcome + "-" + string(rune('a'+seq)),
		RunID:   runID,
		Seq:     seq,
		NodeID:  int(seq) * 10,
		Wires:   [2]int{0, 1},
		Outcome: outcome,
		Rewrite: "none",
		States:  [2]string{"unknown", "unknown"},
	}
}
