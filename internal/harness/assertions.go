package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/sim"
)

// AssertionError is returned when an assertion fails.
// It includes the decision trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] node %d swap q[%d],q[%d]: %s %s\n",
			ev.Seq, ev.NodeID, ev.Wires[0], ev.Wires[1], ev.Outcome, ev.Rewrite)
	}
	return buf.String()
}

// assertDecision checks the decision at a.Index against every non-empty
// field of a.
func assertDecision(trace []TraceEvent, a Assertion) error {
	if a.Index >= len(trace) {
		return &AssertionError{
			Type:     AssertDecision,
			Expected: fmt.Sprintf("a decision at index %d", a.Index),
			Actual:   fmt.Sprintf("%d decision(s)", len(trace)),
			Trace:    trace,
		}
	}

	ev := trace[a.Index]
	var mismatches []string
	check := func(field, want, got string) {
		if want != "" && want != got {
			mismatches = append(mismatches, fmt.Sprintf("%s=%q (want %q)", field, got, want))
		}
	}
	check("outcome", a.Outcome, ev.Outcome)
	check("rewrite", a.Rewrite, ev.Rewrite)
	check("orientation", a.Orientation, ev.Orientation)
	check("basis", a.Basis, ev.Basis)

	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertDecision,
		Expected: fmt.Sprintf("decision %d to match", a.Index),
		Actual:   strings.Join(mismatches, ", "),
		Trace:    trace,
	}
}

// assertDecisionCount counts decisions, restricted to a.Outcome if set.
func assertDecisionCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if a.Outcome == "" || ev.Outcome == a.Outcome {
			n++
		}
	}
	if n == a.Count {
		return nil
	}

	what := "decisions"
	if a.Outcome != "" {
		what = a.Outcome + " decisions"
	}
	return &AssertionError{
		Type:     AssertDecisionCount,
		Expected: fmt.Sprintf("%d %s", a.Count, what),
		Actual:   fmt.Sprintf("%d %s", n, what),
		Trace:    trace,
	}
}

func assertGateCount(result *Result, a Assertion) error {
	kind, err := ir.ParseGateKind(a.Gate)
	if err != nil {
		return err
	}
	n := 0
	for _, inst := range result.Output.Instructions {
		if inst.Gate.Kind == kind {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertGateCount,
		Expected: fmt.Sprintf("%d %s gate(s)", a.Count, kind),
		Actual:   fmt.Sprintf("%d %s gate(s)", n, kind),
		Trace:    result.Trace,
	}
}

func assertEquivalent(result *Result) error {
	ok, fidelity, err := sim.Equivalent(result.Input, result.Output)
	if err != nil {
		return fmt.Errorf("equivalent: %w", err)
	}
	if ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertEquivalent,
		Expected: "output state equal to input state",
		Actual:   fmt.Sprintf("fidelity %.12f", fidelity),
		Trace:    result.Trace,
	}
}

func assertError(result *Result, a Assertion) error {
	switch {
	case result.PassErr == nil:
		return &AssertionError{
			Type:     AssertError,
			Expected: "pass to fail",
			Actual:   "pass succeeded",
			Trace:    result.Trace,
		}
	case a.Code != "" && a.Code != result.ErrorCode:
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("error code %s", a.Code),
			Actual:   fmt.Sprintf("error code %q: %v", result.ErrorCode, result.PassErr),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// When the pass failed, only error assertions are meaningful; if there is
// none, the failure itself is reported.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsFailure := false
	for _, a := range assertions {
		if a.Type == AssertError {
			expectsFailure = true
		}
	}
	if result.PassErr != nil && !expectsFailure {
		errors = append(errors, fmt.Sprintf("pass failed: %v", result.PassErr))
	}

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertDecision:
			err = assertDecision(result.Trace, a)
		case AssertDecisionCount:
			err = assertDecisionCount(result.Trace, a)
		case AssertGateCount, AssertEquivalent:
			if result.Output == nil {
				err = fmt.Errorf("assertion[%d]: %s needs a successful pass", i, a.Type)
			} else if a.Type == AssertGateCount {
				err = assertGateCount(result, a)
			} else {
				err = assertEquivalent(result)
			}
		case AssertError:
			err = assertError(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
