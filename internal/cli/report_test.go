package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purestate/internal/store"
)

// seedDecisionLog optimizes both circuits in circuitsCUE into a fresh
// database: cli-0001 is bell_swap, cli-0002 is idle_swap.
func seedDecisionLog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "circuits.cue", circuitsCUE)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := runOptimizeCmd(t, "text", dir, "--db", dbPath, "-o", filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	return dbPath
}

func TestReport_LatestRun(t *testing.T) {
	dbPath := seedDecisionLog(t)

	stdout, _, err := executeCommand(t, "report", dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Run cli-0002 (#2)")
	assert.Contains(t, stdout, "circuit:  idle_swap (2 qubits)")
	assert.Contains(t, stdout, "swaps:    1 (1 removed, 0 replaced, 0 unchanged)")
	assert.Contains(t, stdout, "[1] node 0 swap q[0],q[1]: removed none")
}

func TestReport_ByID(t *testing.T) {
	dbPath := seedDecisionLog(t)

	stdout, _, err := executeCommand(t, "report", dbPath, "cli-0001")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Run cli-0001 (#1)")
	assert.Contains(t, stdout, "node 1 swap q[0],q[1]: replaced u3-pair")
	assert.Contains(t, stdout, "-> u3(")
	assert.Contains(t, stdout, "states: known(θ=1.5707963267948966, φ=0, λ=3.141592653589793) | known(θ=0, φ=0, λ=0)")
}

func TestReport_JSON(t *testing.T) {
	dbPath := seedDecisionLog(t)

	stdout, _, err := executeCommand(t, "--format", "json", "report", dbPath, "cli-0001")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "bell_swap", resp.Data.Run.CircuitName)
	assert.Equal(t, store.StatusOK, resp.Data.Run.Status)
	assert.Equal(t, 1, resp.Data.Stats.Replaced)
	require.Len(t, resp.Data.Decisions, 1)
	assert.Equal(t, "u3-pair", resp.Data.Decisions[0].Rewrite)
}

func TestReport_List(t *testing.T) {
	dbPath := seedDecisionLog(t)

	stdout, _, err := executeCommand(t, "report", dbPath, "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cli-0001  ok      bell_swap (2 qubits)")
	assert.Contains(t, stdout, "cli-0002  ok      idle_swap (2 qubits)")
}

func TestReport_FailedRun(t *testing.T) {
	path := writeFile(t, t.TempDir(), "idle.qasm", "OPENQASM 2.0;\nqreg q[2];\nswap q[0],q[1];\n")
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := runOptimizeCmd(t, "text", path, "--db", dbPath, "--unknown-input", "5")
	require.Error(t, err)

	stdout, _, err := executeCommand(t, "report", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "status:   failed")
	assert.Contains(t, stdout, "unknown:  [5]")
	assert.Contains(t, stdout, "swaps:    0 (0 removed, 0 replaced, 0 unchanged)")
}

func TestReport_Errors(t *testing.T) {
	t.Run("missing database is not created", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "missing.db")
		stdout, _, err := executeCommand(t, "report", dbPath)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stdout, "database not found")
		assert.NoFileExists(t, dbPath)
	})

	t.Run("unknown run", func(t *testing.T) {
		dbPath := seedDecisionLog(t)
		stdout, _, err := executeCommand(t, "report", dbPath, "nope")
		require.Error(t, err)
		assert.Contains(t, stdout, "run not found: nope")
	})

	t.Run("empty log", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "empty.db")
		st, err := store.Open(dbPath)
		require.NoError(t, err)
		require.NoError(t, st.Close())

		stdout, _, err := executeCommand(t, "report", dbPath)
		require.Error(t, err)
		assert.Contains(t, stdout, "no runs recorded")
	})
}
