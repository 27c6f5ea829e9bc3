package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/purestate/internal/optimizer"
	"github.com/roach88/purestate/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Pass failed, verification failed, scenarios failed
	ExitCommandError = 2 // Command error (invalid paths, unreadable circuit, etc.)
)

// passExitCodes maps pass failure codes to exit codes. A gate the pass
// cannot read is a problem with the input circuit.
var passExitCodes = map[optimizer.ErrorCode]int{
	optimizer.ErrCodeUnsupportedGate:      ExitCommandError,
	optimizer.ErrCodeInvalidOrientation:   ExitFailure,
	optimizer.ErrCodeAngleOutOfRange:      ExitFailure,
	optimizer.ErrCodeRotationInconsistent: ExitFailure,
}

// ExitError carries the exit code a command failure should produce.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// Reported is set when the command already wrote the failure to the
	// user, so main exits without printing it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func reportedExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message, Reported: true}
}

// GetExitCode extracts the exit code from an error. Pass failures map
// through their PassError code; anything else exits with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var passErr *optimizer.PassError
	if errors.As(err, &passErr) {
		if code, ok := passExitCodes[passErr.Code]; ok {
			return code
		}
	}
	return ExitFailure
}

// passErrorCode returns the PassError code of err, or "" for failures
// that carry none (an out-of-range unknown input).
func passErrorCode(err error) string {
	var passErr *optimizer.PassError
	if errors.As(err, &passErr) {
		return string(passErr.Code)
	}
	return ""
}

// ReportError writes err for the user unless a command already did.
func ReportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// NewLogger builds the text logger commands hand to the optimizer.
// Debug level (every SWAP decision) with --verbose, info otherwise.
func NewLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OutputFormatter renders command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics and summaries that must not mix with Writer
	Verbose   bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"` // "E005", "UNSUPPORTED_GATE", etc.
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes err under code and returns the reported ExitError the
// command should return.
func (f *OutputFormatter) Fail(exit int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return &ExitError{Code: exit, Message: code, Err: err, Reported: true}
}

// VerboseLog writes to ErrWriter only in verbose mode, so JSON output on
// Writer stays clean.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Circuits writes the optimize results. When any circuit failed its pass
// or verification it returns a reported ExitError whose code follows the
// first failure.
func (f *OutputFormatter) Circuits(reports []CircuitReport) error {
	var failed *CircuitReport
	for i := range reports {
		if reports[i].Failed() {
			failed = &reports[i]
			break
		}
	}

	if f.Format == "json" {
		if failed == nil {
			return f.Success(reports)
		}
		code, msg := failed.ErrorCode, failed.Error
		if msg == "" {
			code, msg = ErrCodeVerify, fmt.Sprintf("%s: output not equivalent (fidelity %.12f)", failed.Name, failed.Fidelity)
		}
		if code == "" {
			code = ErrCodeGeneric
		}
		if err := f.Error(code, msg, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			f.circuitText(r)
		}
	}

	if failed == nil {
		return nil
	}
	exit := ExitFailure
	if failed.err != nil {
		exit = GetExitCode(failed.err)
	}
	return &ExitError{Code: exit, Message: "optimization failed", Err: failed.err, Reported: true}
}

func (f *OutputFormatter) circuitText(r CircuitReport) {
	ew := f.errWriter()
	if r.Error != "" {
		fmt.Fprintf(ew, "✗ %s: %s\n", r.Name, r.Error)
		return
	}

	// Without -o the QASM owns stdout, so the summary goes to stderr.
	w := f.Writer
	if r.Output != "" {
		fmt.Fprint(f.Writer, r.Output)
		w = ew
	}
	s := r.Stats
	fmt.Fprintf(w, "✓ %s: %d swap(s): %d removed, %d replaced, %d unchanged (%d -> %d gates)\n",
		r.Name, s.Swaps, s.Removed, s.Replaced, s.Unchanged, r.GatesIn, r.GatesOut)
	if r.OutFile != "" {
		fmt.Fprintf(w, "  wrote %s\n", r.OutFile)
	}
	if r.Verified != nil {
		if *r.Verified {
			fmt.Fprintf(w, "  verified (fidelity %.12f)\n", r.Fidelity)
		} else {
			fmt.Fprintf(w, "  ✗ NOT equivalent (fidelity %.12f)\n", r.Fidelity)
		}
	}
	fmt.Fprintf(w, "  run %s\n", r.RunID)
}

// Runs writes one line per recorded run.
func (f *OutputFormatter) Runs(runs []store.Run) error {
	if f.Format == "json" {
		return f.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(f.Writer, "%4d  %s  %-6s  %s (%d qubits)\n", r.Seq, r.ID, r.Status, r.CircuitName, r.NumQubits)
	}
	return nil
}

// Run writes one run with its outcome counts and every decision in walk
// order.
func (f *OutputFormatter) Run(r RunReport) error {
	if f.Format == "json" {
		return f.Success(r)
	}
	w := f.Writer

	fmt.Fprintf(w, "Run %s (#%d)\n", r.Run.ID, r.Run.Seq)
	fmt.Fprintf(w, "  circuit:  %s (%d qubits)\n", r.Run.CircuitName, r.Run.NumQubits)
	fmt.Fprintf(w, "  status:   %s\n", r.Run.Status)
	if r.Run.Status == store.StatusFailed {
		fmt.Fprintf(w, "  error:    [%s] %s\n", r.Run.ErrorCode, r.Run.Error)
	}
	if len(r.Run.Options.UnknownInputs) > 0 {
		fmt.Fprintf(w, "  unknown:  %v\n", r.Run.Options.UnknownInputs)
	}
	if r.Run.Options.TrackReset {
		fmt.Fprintln(w, "  reset:    tracked")
	}
	fmt.Fprintf(w, "  swaps:    %d (%d removed, %d replaced, %d unchanged)\n",
		r.Stats.Swaps, r.Stats.Removed, r.Stats.Replaced, r.Stats.Unchanged)

	if len(r.Decisions) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	for _, d := range r.Decisions {
		fmt.Fprintf(w, "  [%d] node %d swap q[%d],q[%d]: %s %s", d.Seq, d.NodeID, d.Wires[0], d.Wires[1], d.Outcome, d.Rewrite)
		if d.Orientation != "" {
			fmt.Fprintf(w, " (%s %s)", d.Orientation, d.Basis)
		}
		fmt.Fprintln(w)
		if d.Replacement != "" {
			fmt.Fprintf(w, "      -> %s\n", d.Replacement)
		}
		fmt.Fprintf(w, "      states: %s | %s\n", d.States[0], d.States[1])
	}
	return nil
}
