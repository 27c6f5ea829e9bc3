package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/purestate/internal/compiler"
	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/optimizer"
	"github.com/roach88/purestate/internal/qasm"
	"github.com/roach88/purestate/internal/store"
	"github.com/roach88/purestate/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load the circuit and validate it
//  2. Run the pass with the scenario's options
//  3. Record the run and read the decision trace back from the store
//  4. Evaluate assertions
//
// A returned error means the scenario could not be executed at all. A
// failing pass is not an error; it is reported through the result.
func Run(scenario *Scenario) (*Result, error) {
	spec, err := loadCircuit(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load circuit: %w", err)
	}
	if spec.Name == "" {
		spec.Name = scenario.Name
	}
	if errs := compiler.Validate(spec); len(errs) > 0 {
		return nil, fmt.Errorf("invalid circuit: %s", errs[0])
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	ids := testutil.NewFixedRunIDGenerator(scenario.Name)

	wires := make([]ir.Wire, len(scenario.UnknownInputs))
	for i, w := range scenario.UnknownInputs {
		wires[i] = ir.Wire(w)
	}
	pass := optimizer.New(
		optimizer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // suppress logs in tests
		optimizer.WithUnknownInputs(wires...),
		optimizer.WithResetTracking(scenario.TrackReset),
	)

	c, err := dag.FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build circuit: %w", err)
	}
	res, passErr := pass.Optimize(c)

	run, err := st.RecordPass(ctx, store.PassRecord{
		RunID:   ids.Generate(),
		Input:   spec,
		Options: store.RunOptions{UnknownInputs: scenario.UnknownInputs, TrackReset: scenario.TrackReset},
		Result:  res,
		Err:     passErr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	result := NewResult()
	result.RunID = run.ID
	result.Input = spec
	result.ErrorCode = run.ErrorCode
	result.PassErr = passErr
	if res != nil {
		result.Output = res.Circuit.Spec()
	}

	decisions, err := st.ReadDecisions(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read decisions: %w", err)
	}
	for _, d := range decisions {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:         d.Seq,
			NodeID:      d.NodeID,
			Wires:       d.Wires,
			Outcome:     d.Outcome,
			Rewrite:     d.Rewrite,
			Orientation: d.Orientation,
			Basis:       d.Basis,
			Replacement: d.Replacement,
			States:      d.States,
		})
	}
	if result.Stats, err = st.OutcomeCounts(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// loadCircuit resolves the scenario's circuit source.
func loadCircuit(s *Scenario) (*ir.CircuitSpec, error) {
	if s.Circuit != "" {
		return qasm.Parse(s.Circuit)
	}

	data, err := os.ReadFile(s.CircuitFile)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(s.CircuitFile)) {
	case ".qasm":
		return qasm.Parse(string(data))
	case ".cue":
		v := cuecontext.New().CompileBytes(data, cue.Filename(s.CircuitFile))
		specs, err := compiler.CompileCircuits(v)
		if err != nil {
			return nil, err
		}
		if len(specs) != 1 {
			return nil, fmt.Errorf("%s: want exactly one circuit, found %d", s.CircuitFile, len(specs))
		}
		return specs[0], nil
	default:
		return nil, fmt.Errorf("%s: unsupported circuit file type", s.CircuitFile)
	}
}
