package optimizer

import (
	"errors"
	"fmt"

	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/rotation"
)

// ErrorCode categorizes pass failures. Every pass failure is fatal.
type ErrorCode string

const (
	// ErrCodeUnsupportedGate indicates a rotation-class node with no Euler
	// form, or with the wrong number of parameters or wires.
	ErrCodeUnsupportedGate ErrorCode = "UNSUPPORTED_GATE"

	// ErrCodeInvalidOrientation indicates the rewriter got an orientation
	// other than left or right.
	ErrCodeInvalidOrientation ErrorCode = "INVALID_ORIENTATION"

	// ErrCodeAngleOutOfRange wraps rotation.ErrCodeAngleOutOfRange.
	ErrCodeAngleOutOfRange ErrorCode = "ANGLE_OUT_OF_RANGE"

	// ErrCodeRotationInconsistent wraps rotation.ErrCodeInconsistent.
	ErrCodeRotationInconsistent ErrorCode = "ROTATION_INCONSISTENT"
)

// PassError is returned by Run and Optimize when the pass aborts.
type PassError struct {
	Code    ErrorCode
	Message string

	// NodeID is the node being visited, valid when Node is non-empty.
	NodeID dag.NodeID

	// Node is the rendered node, e.g. "4:rx [1]".
	Node string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PassError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsUnsupportedGate returns true if err is an UNSUPPORTED_GATE failure.
func IsUnsupportedGate(err error) bool {
	return hasCode(err, ErrCodeUnsupportedGate)
}

// IsInvalidOrientation returns true if err is an INVALID_ORIENTATION failure.
func IsInvalidOrientation(err error) bool {
	return hasCode(err, ErrCodeInvalidOrientation)
}

// IsAngleOutOfRange returns true for ANGLE_OUT_OF_RANGE, whether raised by
// the pass or by the rotation package.
func IsAngleOutOfRange(err error) bool {
	return hasCode(err, ErrCodeAngleOutOfRange) || rotation.IsAngleOutOfRange(err)
}

// IsConsistencyViolation returns true for ROTATION_INCONSISTENT.
func IsConsistencyViolation(err error) bool {
	return hasCode(err, ErrCodeRotationInconsistent) || rotation.IsConsistencyViolation(err)
}

// fromRotation lifts a rotation failure into a PassError.
func fromRotation(err error) error {
	var re *rotation.Error
	if !errors.As(err, &re) {
		return err
	}
	code := ErrCodeRotationInconsistent
	if re.Code == rotation.ErrCodeAngleOutOfRange {
		code = ErrCodeAngleOutOfRange
	}
	return &PassError{Code: code, Message: re.Message, Err: err}
}

// atNode attaches node context to a PassError. Other errors are wrapped.
func atNode(err error, n *dag.Node) error {
	var pe *PassError
	if errors.As(err, &pe) {
		pe.NodeID = n.ID
		pe.Node = n.String()
		return pe
	}
	return fmt.Errorf("node %s: %w", n, err)
}
