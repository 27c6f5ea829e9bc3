// Package ir provides the circuit intermediate representation for purestate.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the gate catalogue and
// circuit description the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Gate kinds form a closed catalogue (Catalogue); anything else is rejected
//     at the boundary (qasm, compiler) rather than deep inside the optimizer
//   - Wires are dense integers 0..NumQubits-1, never pointers or names
//   - Parameters are radians
//   - Circuit identity is content-addressed (CircuitHash), never positional
package ir
