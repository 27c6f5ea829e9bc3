package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/optimizer"
)

// PassRecord is everything known about one finished pass.
type PassRecord struct {
	RunID   string
	Input   *ir.CircuitSpec
	Options RunOptions

	// Result is nil when Err is set.
	Result *optimizer.Result
	Err    error
}

// RecordPass writes a run and all of its decisions in a single transaction,
// so a crash never leaves a run with a partial decision list.
func (s *Store) RecordPass(ctx context.Context, rec PassRecord) (Run, error) {
	run, decisions, err := buildRecords(rec)
	if err != nil {
		return Run{}, fmt.Errorf("record pass: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record pass: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return Run{}, fmt.Errorf("record pass: %w", err)
	}
	for _, d := range decisions {
		if err := writeDecision(ctx, tx, d); err != nil {
			return Run{}, fmt.Errorf("record pass: %w", err)
		}
	}
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record pass: read seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record pass: commit: %w", err)
	}
	return run, nil
}

func buildRecords(rec PassRecord) (Run, []DecisionRecord, error) {
	if rec.RunID == "" {
		return Run{}, nil, errors.New("empty run ID")
	}
	inputHash, err := ir.CircuitHash(rec.Input)
	if err != nil {
		return Run{}, nil, err
	}

	opts := rec.Options
	if opts.UnknownInputs == nil {
		opts.UnknownInputs = []int{}
	}
	run := Run{
		ID:          rec.RunID,
		CircuitName: rec.Input.Name,
		NumQubits:   rec.Input.NumQubits,
		InputHash:   inputHash,
		Options:     opts,
		PassVersion: ir.PassVersion,
		IRVersion:   ir.IRVersion,
	}

	if rec.Err != nil {
		run.Status = StatusFailed
		run.Error = rec.Err.Error()
		var pe *optimizer.PassError
		if errors.As(rec.Err, &pe) {
			run.ErrorCode = string(pe.Code)
		}
		return run, nil, nil
	}
	if rec.Result == nil {
		return Run{}, nil, errors.New("no result and no error")
	}

	run.Status = StatusOK
	if run.OutputHash, err = ir.CircuitHash(rec.Result.Circuit.Spec()); err != nil {
		return Run{}, nil, err
	}

	decisions := make([]DecisionRecord, 0, len(rec.Result.Decisions))
	for i, d := range rec.Result.Decisions {
		dr, err := decisionRecord(rec.RunID, int64(i+1), d)
		if err != nil {
			return Run{}, nil, err
		}
		decisions = append(decisions, dr)
	}
	return run, decisions, nil
}

// decisionRecord flattens an optimizer decision for storage.
func decisionRecord(runID string, seq int64, d optimizer.Decision) (DecisionRecord, error) {
	id, err := ir.DecisionHash(runID, seq, string(d.Outcome), string(d.Rewrite))
	if err != nil {
		return DecisionRecord{}, err
	}
	dr := DecisionRecord{
		ID:          id,
		RunID:       runID,
		Seq:         seq,
		NodeID:      int(d.NodeID),
		Wires:       [2]int{int(d.Wires[0]), int(d.Wires[1])},
		Outcome:     string(d.Outcome),
		Rewrite:     string(d.Rewrite),
		Orientation: string(d.Orientation),
		States:      [2]string{d.States[0].String(), d.States[1].String()},
	}
	if d.Orientation != optimizer.OrientationNone {
		dr.Basis = d.Basis.String()
	}
	if d.Subgraph != nil {
		dr.Replacement = d.Subgraph.String()
	}
	return dr, nil
}
