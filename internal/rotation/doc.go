// Package rotation implements the single-qubit rotation algebra used to track
// wire states.
//
// A rotation is an Euler triple (θ, φ, λ) in the U3 convention:
//
//	U3(θ, φ, λ) = Rz(φ) · Ry(θ) · Rz(λ)
//
// applied right to left, so λ acts first. A wire in triple t holds U3(t)|0>.
// Triples are compared as rotations, so global phase is never tracked.
//
// Composition multiplies two triples by re-expressing the inner
// Ry·Rz·Ry product as Rz·Ry·Rz through a unit quaternion, then snapping the
// result so that exact Clifford angles stay exact.
//
// INVARIANTS (on every triple returned by Compose, Between and Normalize):
//   - 0 <= θ <= π
//   - 0 <= φ < 2π and 0 <= λ < 2π
//   - any component within SnapTolerance of k·π/2 equals k·π/2 exactly
package rotation
