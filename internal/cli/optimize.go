package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/purestate/internal/compiler"
	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/optimizer"
	"github.com/roach88/purestate/internal/qasm"
	"github.com/roach88/purestate/internal/sim"
	"github.com/roach88/purestate/internal/store"
)

// OptimizeOptions holds flags for the optimize command.
type OptimizeOptions struct {
	*RootOptions
	Output        string // output file, or directory when the input holds several circuits
	DBPath        string // decision log database
	Verify        bool   // simulate input and output and compare
	UnknownInputs []int  // wires not prepared in |0>
	TrackReset    bool   // reset returns a wire to known |0>

	// IDs generates run IDs. Nil means UUIDv7.
	IDs store.RunIDGenerator
}

// CircuitReport is the per-circuit result of optimize.
type CircuitReport struct {
	Name      string          `json:"name"`
	RunID     string          `json:"run_id"`
	Stats     optimizer.Stats `json:"stats"`
	GatesIn   int             `json:"gates_in"`
	GatesOut  int             `json:"gates_out"`
	Verified  *bool           `json:"verified,omitempty"`
	Fidelity  float64         `json:"fidelity,omitempty"`
	Output    string          `json:"output,omitempty"`
	OutFile   string          `json:"out_file,omitempty"`
	ErrorCode string          `json:"error_code,omitempty"`
	Error     string          `json:"error,omitempty"`

	err error
}

// Failed reports whether the pass failed or the output did not verify.
func (r CircuitReport) Failed() bool {
	return r.Error != "" || (r.Verified != nil && !*r.Verified)
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	return newOptimizeCommand(&OptimizeOptions{RootOptions: rootOpts})
}

func newOptimizeCommand(opts *OptimizeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <file.qasm|file.cue|circuits-dir>",
		Short: "Run the SWAP elimination pass",
		Long: `Run the pure-state SWAP elimination pass over one or more circuits.

Every SWAP decision is recorded in the decision log (--db). Without -o the
optimized QASM is written to stdout.

Exit codes:
  0 - All circuits optimized (and verified, with --verify)
  1 - A pass failed or verification found a mismatch
  2 - Command error (invalid paths, unreadable circuit, unsupported gate)

Examples:
  purestate optimize bell.qasm
  purestate optimize bell.qasm -o bell.opt.qasm --verify
  purestate optimize ./circuits -o ./out --db runs.db
  purestate optimize teleport.qasm --unknown-input 0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write optimized QASM here (a directory for multi-circuit input)")
	cmd.Flags().StringVar(&opts.DBPath, "db", store.MemoryPath, "decision log database path")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "simulate input and output and require equal states")
	cmd.Flags().IntSliceVar(&opts.UnknownInputs, "unknown-input", nil, "wire whose input is not |0> (repeatable)")
	cmd.Flags().BoolVar(&opts.TrackReset, "track-reset", false, "treat reset as returning its wire to |0>")

	return cmd
}

func runOptimize(opts *OptimizeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := NewLogger(opts.RootOptions, cmd.ErrOrStderr())

	loadResult, loadErrors := LoadInput(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			code = loadErr.Code
		}
		return formatter.Fail(ExitCommandError, code, loadErrors[0])
	}

	for _, spec := range loadResult.Circuits {
		if errs := compiler.Validate(spec); len(errs) > 0 {
			_ = formatter.Error(errs[0].Code, fmt.Sprintf("%s: %s", spec.Name, errs[0].Error()), errs)
			return reportedExitError(ExitCommandError, fmt.Sprintf("invalid circuit %s", spec.Name))
		}
	}

	outPaths, err := outputPaths(opts.Output, loadResult.Circuits)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	ids := opts.IDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	wires := make([]ir.Wire, len(opts.UnknownInputs))
	for i, w := range opts.UnknownInputs {
		wires[i] = ir.Wire(w)
	}
	pass := optimizer.New(
		optimizer.WithLogger(logger),
		optimizer.WithUnknownInputs(wires...),
		optimizer.WithResetTracking(opts.TrackReset),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reports := make([]CircuitReport, 0, len(loadResult.Circuits))
	for i, spec := range loadResult.Circuits {
		report, err := optimizeOne(ctx, st, pass, ids.Generate(), spec, opts, logger)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
		if report.Error == "" && report.Output != "" && outPaths != nil {
			if err := os.WriteFile(outPaths[i], []byte(report.Output), 0644); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
			}
			report.OutFile = outPaths[i]
			report.Output = ""
		}
		reports = append(reports, report)
	}

	return formatter.Circuits(reports)
}

// optimizeOne runs the pass over one circuit and records the run. The
// returned error is a decision log failure; pass failures and verification
// mismatches are reported in the CircuitReport.
func optimizeOne(ctx context.Context, st *store.Store, pass *optimizer.Pass, runID string, spec *ir.CircuitSpec, opts *OptimizeOptions, logger *slog.Logger) (CircuitReport, error) {
	report := CircuitReport{Name: spec.Name, RunID: runID, GatesIn: len(spec.Instructions)}

	c, err := dag.FromSpec(spec)
	var res *optimizer.Result
	if err == nil {
		res, err = pass.Optimize(c)
	}

	if _, recErr := st.RecordPass(ctx, store.PassRecord{
		RunID:   runID,
		Input:   spec,
		Options: store.RunOptions{UnknownInputs: opts.UnknownInputs, TrackReset: opts.TrackReset},
		Result:  res,
		Err:     err,
	}); recErr != nil {
		return report, recErr
	}

	if err != nil {
		report.err = err
		report.Error = err.Error()
		report.ErrorCode = passErrorCode(err)
		return report, nil
	}

	out := res.Circuit.Spec()
	report.Stats = res.Stats()
	report.GatesOut = len(out.Instructions)
	report.Output = qasm.Format(out)

	if opts.Verify {
		if !spec.Unitary() {
			logger.Warn("skipping verification of non-unitary circuit", "circuit", spec.Name)
			return report, nil
		}
		ok, fid, err := sim.Equivalent(spec, out)
		if err != nil {
			report.err = err
			report.Error = fmt.Sprintf("verify: %v", err)
			report.ErrorCode = ErrCodeVerify
			return report, nil
		}
		report.Verified = &ok
		report.Fidelity = fid
		if !ok {
			logger.Error("verification failed", "circuit", spec.Name, "fidelity", fid)
		}
	}
	return report, nil
}

// outputPaths maps each circuit to its output file. A single circuit
// writes to out directly; several circuits write <name>.qasm under out.
func outputPaths(out string, circuits []*ir.CircuitSpec) ([]string, error) {
	if out == "" {
		return nil, nil
	}
	if len(circuits) == 1 {
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		return []string{out}, nil
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(circuits))
	for i, c := range circuits {
		paths[i] = filepath.Join(out, c.Name+".qasm")
	}
	return paths, nil
}
