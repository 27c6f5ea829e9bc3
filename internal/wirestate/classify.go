package wirestate

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the absolute and relative closeness used by every predicate.
const Tolerance = 1e-8

// Basis names the canonical single-qubit states.
type Basis int

const (
	BasisUnknown Basis = iota
	BasisZero
	BasisOne
	BasisPlus
	BasisMinus
	BasisOther
)

// String returns the basis name used in decision logs.
func (b Basis) String() string {
	switch b {
	case BasisZero:
		return "zero"
	case BasisOne:
		return "one"
	case BasisPlus:
		return "plus"
	case BasisMinus:
		return "minus"
	case BasisOther:
		return "other"
	default:
		return "unknown"
	}
}

func near(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, Tolerance, Tolerance)
}

// nearPhase compares two phases on the circle, so 2π-ε is near 0.
func nearPhase(a, b float64) bool {
	return math.Abs(math.Remainder(a-b, 2*math.Pi)) <= Tolerance
}

// IsZero reports θ ≈ 0.
func IsZero(s State) bool {
	e, ok := s.Euler()
	return ok && near(e.Theta, 0)
}

// IsOne reports θ ≈ π.
func IsOne(s State) bool {
	e, ok := s.Euler()
	return ok && near(e.Theta, math.Pi)
}

// IsPlus reports θ ≈ π/2 and φ ≈ 0.
func IsPlus(s State) bool {
	e, ok := s.Euler()
	return ok && near(e.Theta, math.Pi/2) && nearPhase(e.Phi, 0)
}

// IsMinus reports θ ≈ π/2 and φ ≈ π.
func IsMinus(s State) bool {
	e, ok := s.Euler()
	return ok && near(e.Theta, math.Pi/2) && nearPhase(e.Phi, math.Pi)
}

// Classify returns the first matching basis in the order zero, one, plus,
// minus. Known states matching none are BasisOther.
func Classify(s State) Basis {
	switch {
	case !s.IsKnown():
		return BasisUnknown
	case IsZero(s):
		return BasisZero
	case IsOne(s):
		return BasisOne
	case IsPlus(s):
		return BasisPlus
	case IsMinus(s):
		return BasisMinus
	default:
		return BasisOther
	}
}
