// Package optimizer implements the pure-state SWAP elimination pass.
//
// The pass walks a dag.Circuit once in program order and keeps, for every
// wire, either the exact Euler triple of the single-qubit state the wire
// provably holds or Unknown. Single-qubit rotation gates update the triple;
// controlled and unmodeled gates make their wires Unknown. Each SWAP is
// decided from the two operand states:
//
//	both known, equal     -> removed
//	both known, different -> replaced by one U3 correction per wire
//	one known             -> replaced by an ASWAP with at most one correction
//	                         (or a U3 sandwich for non-canonical states)
//	neither known         -> unchanged
//
// and the two wire states are exchanged afterwards in every case.
//
// ASWAP(a, b) is cx a,b; cx b,a. It acts as a full SWAP whenever b holds |0>
// or a holds |+>, which is what the one-known rewrites rely on.
//
// A failed pass returns a *PassError and leaves the input circuit untouched.
package optimizer
