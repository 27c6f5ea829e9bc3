package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record. The run's Seq is assigned by the store as
// one past the highest existing seq and is ignored on input.
// Uses ON CONFLICT(id) DO NOTHING - rewriting a run ID is silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	return writeRun(ctx, s.db, run)
}

func writeRun(ctx context.Context, db execer, run Run) error {
	opts, err := marshalOptions(run.Options)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, circuit_name, num_qubits, input_hash, output_hash, status,
		 error_code, error, options, pass_version, ir_version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.CircuitName,
		run.NumQubits,
		run.InputHash,
		run.OutputHash,
		string(run.Status),
		run.ErrorCode,
		run.Error,
		opts,
		run.PassVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteDecision inserts a decision record.
// Uses ON CONFLICT DO NOTHING for idempotency on both the ID and the
// (run_id, seq) pair.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteDecision(ctx context.Context, d DecisionRecord) error {
	return writeDecision(ctx, s.db, d)
}

func writeDecision(ctx context.Context, db execer, d DecisionRecord) error {
	states, err := marshalStates(d.States)
	if err != nil {
		return fmt.Errorf("write decision: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO decisions
		(id, run_id, seq, node_id, wire1, wire2, outcome, rewrite, orientation,
		 basis, states, replacement)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		d.ID,
		d.RunID,
		d.Seq,
		d.NodeID,
		d.Wires[0],
		d.Wires[1],
		d.Outcome,
		d.Rewrite,
		d.Orientation,
		d.Basis,
		states,
		d.Replacement,
	)
	if err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}
