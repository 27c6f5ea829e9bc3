package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/purestate/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Circuits int                        `json:"circuits"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.qasm|file.cue|circuits-dir>",
		Short: "Check circuits without running the pass",
		Long: `Parse circuits and check them against the gate set without optimizing.

Reports every problem found: unknown gates, wrong wire or parameter counts,
out-of-range wires and duplicate operands.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadInput(path, LoadModeCollectAll)

	// Nothing loaded at all: missing path, no files, parse failure
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Loaded %d circuit(s) from %d file(s)", len(loadResult.Circuits), loadResult.FileCount)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			line := loadErr.Line
			if loadErr.Pos.IsValid() {
				line = loadErr.Pos.Line()
			}
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    line,
			})
		}
	}

	for _, spec := range loadResult.Circuits {
		formatter.VerboseLog("Validating circuit: %s", spec.Name)
		for _, ve := range compiler.Validate(spec) {
			ve.Field = spec.Name + "." + ve.Field
			validationErrors = append(validationErrors, ve)
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(loadResult.Circuits), validationErrors)
	}
	return outputValidateSuccess(formatter, len(loadResult.Circuits))
}

func outputValidateSuccess(formatter *OutputFormatter, circuits int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Circuits: circuits})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d circuit(s) valid\n", circuits)
	return nil
}

func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return reportedExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func outputValidationErrors(formatter *OutputFormatter, circuits int, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:    false,
				Circuits: circuits,
				Errors:   errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return reportedExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return reportedExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
