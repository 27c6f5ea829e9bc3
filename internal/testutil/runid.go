package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator generates a predictable sequence of run IDs.
//
// IDs have the form "<prefix>-0001", "<prefix>-0002", ... so the same
// scenario run twice with a fresh generator records byte-identical decision
// IDs and golden traces.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedRunIDGenerator creates a generator with the given prefix.
// If prefix is empty, "test-run" is used.
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "test-run"
	}
	return &FixedRunIDGenerator{prefix: prefix}
}

// Generate returns the next ID in the sequence.
//
// Implements store.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset restarts the sequence. After Reset, Generate returns "<prefix>-0001".
func (g *FixedRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
