// Package wirestate holds per-wire knowledge for one optimizer run.
//
// A wire is either Known, carrying the rotation.Euler triple t such that the
// wire holds U3(t)|0>, or Unknown. The zero value of State is Unknown, so a
// freshly allocated slice of states claims nothing.
package wirestate

import (
	"fmt"

	"github.com/roach88/purestate/internal/rotation"
)

// State is the knowledge held about one wire.
type State struct {
	known bool
	euler rotation.Euler
}

// Known returns a state asserting the wire holds U3(e)|0>.
func Known(e rotation.Euler) State {
	return State{known: true, euler: e}
}

// Unknown returns a state making no claim about the wire.
func Unknown() State {
	return State{}
}

// IsKnown reports whether s carries a triple.
func (s State) IsKnown() bool {
	return s.known
}

// Euler returns the triple and whether s is Known.
func (s State) Euler() (rotation.Euler, bool) {
	return s.euler, s.known
}

// String renders s for logs.
func (s State) String() string {
	if !s.known {
		return "unknown"
	}
	return "known" + s.euler.String()
}

// Store maps every wire of a circuit to its State.
//
// INVARIANTS:
//   - Len() is fixed at construction; every wire in [0, Len()) has an entry
//   - Exchange never allocates
type Store struct {
	states []State
}

// NewStore returns a store of n wires, each holding initial.
func NewStore(n int, initial State) *Store {
	if n < 0 {
		panic(fmt.Sprintf("wirestate: negative wire count %d", n))
	}
	states := make([]State, n)
	for i := range states {
		states[i] = initial
	}
	return &Store{states: states}
}

// Len returns the number of wires.
func (s *Store) Len() int {
	return len(s.states)
}

// Get returns the state of wire w.
func (s *Store) Get(w int) State {
	s.check(w)
	return s.states[w]
}

// Set replaces the state of wire w.
func (s *Store) Set(w int, st State) {
	s.check(w)
	s.states[w] = st
}

// Exchange swaps the states of wires a and b.
func (s *Store) Exchange(a, b int) {
	s.check(a)
	s.check(b)
	s.states[a], s.states[b] = s.states[b], s.states[a]
}

// Snapshot returns a copy of every state in wire order.
func (s *Store) Snapshot() []State {
	out := make([]State, len(s.states))
	copy(out, s.states)
	return out
}

// check panics on an out-of-range wire. The optimizer validates wires before
// walking, so reaching this is a programming error.
func (s *Store) check(w int) {
	if w < 0 || w >= len(s.states) {
		panic(fmt.Sprintf("wirestate: wire %d out of range [0,%d)", w, len(s.states)))
	}
}
