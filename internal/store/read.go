package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/purestate/internal/optimizer"
)

const runColumns = `id, seq, circuit_name, num_qubits, input_hash, output_hash, status,
	error_code, error, options, pass_version, ir_version`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ReadLatestRun retrieves the run with the highest seq.
// Returns sql.ErrNoRows if the store is empty.
func (s *Store) ReadLatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq DESC LIMIT 1`)
	return scanRun(row)
}

// ReadRuns returns every run in seq order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadDecisions returns the decisions of a run in walk order.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadDecisions(ctx context.Context, runID string) ([]DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, node_id, wire1, wire2, outcome, rewrite,
		       orientation, basis, states, replacement
		FROM decisions
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	out := []DecisionRecord{}
	for rows.Next() {
		var d DecisionRecord
		var states string
		if err := rows.Scan(
			&d.ID, &d.RunID, &d.Seq, &d.NodeID, &d.Wires[0], &d.Wires[1],
			&d.Outcome, &d.Rewrite, &d.Orientation, &d.Basis, &states, &d.Replacement,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if d.States, err = unmarshalStates(states); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

// OutcomeCounts tallies a run's decisions by outcome.
func (s *Store) OutcomeCounts(ctx context.Context, runID string) (optimizer.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*)
		FROM decisions
		WHERE run_id = ?
		GROUP BY outcome
		ORDER BY outcome COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return optimizer.Stats{}, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	var stats optimizer.Stats
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return optimizer.Stats{}, fmt.Errorf("scan outcome count: %w", err)
		}
		stats.Swaps += n
		switch optimizer.Outcome(outcome) {
		case optimizer.OutcomeRemoved:
			stats.Removed = n
		case optimizer.OutcomeReplaced:
			stats.Replaced = n
		case optimizer.OutcomeUnchanged:
			stats.Unchanged = n
		}
	}
	if err := rows.Err(); err != nil {
		return optimizer.Stats{}, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var status, opts string
	err := row.Scan(
		&run.ID, &run.Seq, &run.CircuitName, &run.NumQubits, &run.InputHash,
		&run.OutputHash, &status, &run.ErrorCode, &run.Error, &opts,
		&run.PassVersion, &run.IRVersion,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	if run.Options, err = unmarshalOptions(opts); err != nil {
		return Run{}, err
	}
	return run, nil
}
