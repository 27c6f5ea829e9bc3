package rotation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// gimbalEpsilon decides when θ' is numerically 0 or π during extraction.
const gimbalEpsilon = 1e-12

// Compose returns the triple of U3(outer) · U3(inner), i.e. inner is
// applied first.
//
// Writing both sides out,
//
//	Rz(φo) Ry(θo) Rz(λo) · Rz(φi) Ry(θi) Rz(λi)
//
// the two middle Rz terms merge into Rz(ξ) with ξ = λo + φi, and the
// Ry(θo) Rz(ξ) Ry(θi) product is rewritten as Rz(φ') Ry(θ') Rz(λ'). The
// result is (θ', φo + φ', λi + λ'), normalized.
func Compose(outer, inner Euler) (Euler, error) {
	xi := outer.Lambda + inner.Phi
	theta, phi, lambda, err := yzyToZYZ(outer.Theta, xi, inner.Theta)
	if err != nil {
		return Euler{}, err
	}
	return Normalize(Euler{
		Theta:  theta,
		Phi:    outer.Phi + phi,
		Lambda: inner.Lambda + lambda,
	})
}

// Between returns the triple that carries state from onto state to:
// Compose(Between(from, to), from) is to, up to global phase.
func Between(from, to Euler) (Euler, error) {
	return Compose(to, Invert(from))
}

// yzyToZYZ rewrites Ry(a) Rz(b) Ry(c) as Rz(φ) Ry(θ) Rz(λ) and verifies the
// two forms describe the same rotation.
func yzyToZYZ(a, b, c float64) (theta, phi, lambda float64, err error) {
	qYZY := unit(quat.Mul(quat.Mul(ry(a), rz(b)), ry(c)))
	theta, phi, lambda = extractZYZ(qYZY)

	qZYZ := unit(quat.Mul(quat.Mul(rz(phi), ry(theta)), rz(lambda)))
	inner := math.Abs(dot(qYZY, qZYZ))
	if !(math.Abs(inner-1) <= ConsistencyTolerance) {
		return 0, 0, 0, newConsistencyError(Euler{Theta: theta, Phi: phi, Lambda: lambda}, inner)
	}
	return chop(theta), chop(phi), chop(lambda), nil
}

// extractZYZ reads Z·Y·Z Euler angles from a unit quaternion.
//
// For q = Rz(φ)Ry(θ)Rz(λ) the components are
//
//	w = cos(θ/2) cos((φ+λ)/2)    z = cos(θ/2) sin((φ+λ)/2)
//	x = -sin(θ/2) sin((φ-λ)/2)   y = sin(θ/2) cos((φ-λ)/2)
//
// At θ = 0 only φ+λ is defined and φ is taken as 0. At θ = π only φ-λ is
// defined and φ is again taken as 0.
func extractZYZ(q quat.Number) (theta, phi, lambda float64) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	sinHalf := math.Hypot(x, y)
	cosHalf := math.Hypot(w, z)
	theta = 2 * math.Atan2(sinHalf, cosHalf)

	switch {
	case sinHalf < gimbalEpsilon:
		return theta, 0, 2 * math.Atan2(z, w)
	case cosHalf < gimbalEpsilon:
		return theta, 0, -2 * math.Atan2(-x, y)
	default:
		sum := 2 * math.Atan2(z, w)
		diff := 2 * math.Atan2(-x, y)
		return theta, (sum + diff) / 2, (sum - diff) / 2
	}
}

func ry(a float64) quat.Number {
	return quat.Number{Real: math.Cos(a / 2), Jmag: math.Sin(a / 2)}
}

func rz(a float64) quat.Number {
	return quat.Number{Real: math.Cos(a / 2), Kmag: math.Sin(a / 2)}
}

func unit(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

func dot(p, q quat.Number) float64 {
	return p.Real*q.Real + p.Imag*q.Imag + p.Jmag*q.Jmag + p.Kmag*q.Kmag
}
