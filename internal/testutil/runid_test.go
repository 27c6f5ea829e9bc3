package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_Sequence(t *testing.T) {
	gen := NewFixedRunIDGenerator("scenario")

	assert.Equal(t, "scenario-0001", gen.Generate())
	assert.Equal(t, "scenario-0002", gen.Generate())
	assert.Equal(t, "scenario-0003", gen.Generate())
}

func TestFixedRunIDGenerator_EmptyPrefixDefault(t *testing.T) {
	gen := NewFixedRunIDGenerator("")
	assert.Equal(t, "test-run-0001", gen.Generate())
}

func TestFixedRunIDGenerator_Reset(t *testing.T) {
	gen := NewFixedRunIDGenerator("r")
	gen.Generate()
	gen.Generate()

	gen.Reset()
	assert.Equal(t, "r-0001", gen.Generate())
}

func TestFixedRunIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedRunIDGenerator("ts")

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every ID is distinct and the counter ended at exactly 1000.
	assert.Len(t, seen, 1000)
	assert.Equal(t, "ts-1001", gen.Generate())
}
