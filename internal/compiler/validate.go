package compiler

import (
	"fmt"

	"github.com/roach88/purestate/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// CircuitSpec errors (E101-E109)
	ErrNoQubits        = "E101" // circuit declares no qubits
	ErrUnknownGate     = "E102" // gate not in the catalogue
	ErrWireCount       = "E103" // wrong number of wires for the gate
	ErrWireOutOfRange  = "E104" // wire outside [0, qubits)
	ErrDuplicateWire   = "E105" // same wire used twice in one op
	ErrParamCount      = "E106" // wrong number of angle parameters
	ErrClbitOutOfRange = "E107" // measure target outside [0, clbits)
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled circuit against the gate catalogue.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.CircuitSpec:
		return validateCircuit(spec)
	case ir.CircuitSpec:
		return validateCircuit(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateCircuit(spec *ir.CircuitSpec) []ValidationError {
	var errs []ValidationError

	// E101: at least one qubit
	if spec.NumQubits <= 0 {
		errs = append(errs, ValidationError{
			Field:   "qubits",
			Message: fmt.Sprintf("circuit %q must declare at least one qubit", spec.Name),
			Code:    ErrNoQubits,
		})
	}

	for i, inst := range spec.Instructions {
		field := fmt.Sprintf("ops[%d]", i)

		// E102: gate must be in the catalogue
		info, ok := ir.LookupGate(inst.Gate.Kind)
		if !ok {
			errs = append(errs, ValidationError{
				Field:   field + ".gate",
				Message: fmt.Sprintf("unknown gate %q", inst.Gate.Kind),
				Code:    ErrUnknownGate,
			})
		}

		// E103 and E106 need the catalogue entry
		if ok && info.Wires > 0 && len(inst.Wires) != info.Wires {
			errs = append(errs, ValidationError{
				Field:   field + ".wires",
				Message: fmt.Sprintf("%s takes %d wire(s), got %d", inst.Gate.Kind, info.Wires, len(inst.Wires)),
				Code:    ErrWireCount,
			})
		}
		if ok && len(inst.Gate.Params) != info.Params {
			errs = append(errs, ValidationError{
				Field:   field + ".params",
				Message: fmt.Sprintf("%s takes %d parameter(s), got %d", inst.Gate.Kind, info.Params, len(inst.Gate.Params)),
				Code:    ErrParamCount,
			})
		}

		seen := make(map[ir.Wire]bool, len(inst.Wires))
		for j, w := range inst.Wires {
			// E104: wire in range
			if spec.NumQubits > 0 && (w < 0 || int(w) >= spec.NumQubits) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.wires[%d]", field, j),
					Message: fmt.Sprintf("wire %d out of range [0,%d)", w, spec.NumQubits),
					Code:    ErrWireOutOfRange,
				})
			}
			// E105: no repeated wire
			if seen[w] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.wires[%d]", field, j),
					Message: fmt.Sprintf("wire %d used twice", w),
					Code:    ErrDuplicateWire,
				})
			}
			seen[w] = true
		}

		// E107: measure target in range
		for j, c := range inst.Clbits {
			if c < 0 || c >= spec.NumClbits {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.clbits[%d]", field, j),
					Message: fmt.Sprintf("clbit %d out of range [0,%d)", c, spec.NumClbits),
					Code:    ErrClbitOutOfRange,
				})
			}
		}
	}

	return errs
}
