package rotation

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes rotation algebra failures. Both codes indicate a
// defect in the calling logic or the math, never bad user input.
type ErrorCode string

const (
	// ErrCodeAngleOutOfRange indicates θ left [0, π] (or became NaN/Inf).
	ErrCodeAngleOutOfRange ErrorCode = "ANGLE_OUT_OF_RANGE"

	// ErrCodeInconsistent indicates the Y·Z·Y and Z·Y·Z quaternions disagree.
	ErrCodeInconsistent ErrorCode = "ROTATION_INCONSISTENT"
)

// Error is a fatal rotation algebra failure.
type Error struct {
	Code    ErrorCode
	Message string

	// Angles is the triple being produced when the failure was detected.
	Angles Euler
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Code, e.Message, e.Angles)
}

// IsAngleOutOfRange returns true if err is, or wraps, an out-of-range error.
func IsAngleOutOfRange(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeAngleOutOfRange
	}
	return false
}

// IsConsistencyViolation returns true if err is, or wraps, a quaternion
// cross-check failure.
func IsConsistencyViolation(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeInconsistent
	}
	return false
}

func newRangeError(e Euler) *Error {
	return &Error{
		Code:    ErrCodeAngleOutOfRange,
		Message: "theta outside [0, pi]",
		Angles:  e,
	}
}

func newConsistencyError(e Euler, inner float64) *Error {
	return &Error{
		Code:    ErrCodeInconsistent,
		Message: fmt.Sprintf("YZY and ZYZ angles give different rotations (|<q1,q2>| = %.12f)", inner),
		Angles:  e,
	}
}
