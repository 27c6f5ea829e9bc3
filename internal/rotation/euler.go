package rotation

import (
	"fmt"
	"math"
)

const (
	// SnapTolerance is how close an angle must be to k·π/2 to be snapped.
	SnapTolerance = 1e-9

	// ChopThreshold zeroes extracted angles smaller than this.
	ChopThreshold = 1e-15

	// ConsistencyTolerance bounds |1 - |<q_yzy, q_zyz>||.
	ConsistencyTolerance = 1e-9

	twoPi  = 2 * math.Pi
	halfPi = math.Pi / 2
)

// quadrants are the exact phase values produced by snapping.
var quadrants = [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

// Euler is a rotation triple in the U3 convention (see package doc).
type Euler struct {
	Theta  float64 `json:"theta" yaml:"theta"`
	Phi    float64 `json:"phi" yaml:"phi"`
	Lambda float64 `json:"lambda" yaml:"lambda"`
}

// Identity is the reference state |0>.
var Identity = Euler{}

// String renders the triple for logs and error messages.
func (e Euler) String() string {
	return fmt.Sprintf("(θ=%g, φ=%g, λ=%g)", e.Theta, e.Phi, e.Lambda)
}

// Normalize applies the snapping policy and range checks.
//
// θ within SnapTolerance of 0, π/2 or π becomes exact; θ outside [0, π] is
// an ANGLE_OUT_OF_RANGE error and is never clamped. φ and λ are reduced
// into [0, 2π) and snapped to exact quadrants.
func Normalize(e Euler) (Euler, error) {
	if !finite(e.Theta) || !finite(e.Phi) || !finite(e.Lambda) {
		return Euler{}, newRangeError(e)
	}
	theta := snap(e.Theta)
	if theta < 0 || theta > math.Pi {
		return Euler{}, newRangeError(e)
	}
	return Euler{
		Theta:  theta,
		Phi:    normalizePhase(e.Phi),
		Lambda: normalizePhase(e.Lambda),
	}, nil
}

// Invert returns the triple of the rotation undoing e.
//
// U3(θ,φ,λ)⁻¹ = U3(−θ,−λ,−φ), which is the same rotation as
// U3(θ, π−λ, π−φ); the latter keeps θ in range so the result is
// already normalized.
func Invert(e Euler) Euler {
	if e.Theta == 0 {
		return Euler{Lambda: normalizePhase(-(e.Phi + e.Lambda))}
	}
	return Euler{
		Theta:  e.Theta,
		Phi:    normalizePhase(math.Pi - e.Lambda),
		Lambda: normalizePhase(math.Pi - e.Phi),
	}
}

// snap replaces a value within SnapTolerance of k·π/2 by k·π/2.
func snap(a float64) float64 {
	k := math.Round(a / halfPi)
	if math.Abs(a-k*halfPi) < SnapTolerance {
		if k == 0 {
			return 0
		}
		return k * halfPi
	}
	return a
}

// normalizePhase reduces a into [0, 2π) and snaps it to a quadrant.
func normalizePhase(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	k := math.Round(a / halfPi)
	if math.Abs(a-k*halfPi) < SnapTolerance {
		return quadrants[int(k)%4]
	}
	if a >= twoPi {
		return 0
	}
	return a
}

// chop zeroes angles below ChopThreshold.
func chop(a float64) float64 {
	if math.Abs(a) < ChopThreshold {
		return 0
	}
	return a
}

func finite(a float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0)
}
