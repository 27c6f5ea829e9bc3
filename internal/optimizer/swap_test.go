package optimizer

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/rotation"
	"github.com/roach88/purestate/internal/wirestate"
)

func storeOf(states ...wirestate.State) *wirestate.Store {
	s := wirestate.NewStore(len(states), wirestate.Unknown())
	for i, st := range states {
		s.Set(i, st)
	}
	return s
}

func TestDecideSwapEqualKnown(t *testing.T) {
	e := rotation.Euler{Theta: 1, Phi: 2, Lambda: 3}
	d, err := decideSwap(storeOf(wirestate.Known(e), wirestate.Known(e)), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, d.Outcome)
	assert.Nil(t, d.Subgraph)
}

func TestDecideSwapDifferentKnownLandsOnOther(t *testing.T) {
	t1 := rotation.Euler{Theta: 0.4, Phi: 1.0, Lambda: 0}
	t2 := rotation.Euler{Theta: 2.2, Phi: 5.0, Lambda: 0}

	d, err := decideSwap(storeOf(wirestate.Known(t1), wirestate.Known(t2)), 0, 1)
	require.NoError(t, err)
	require.Equal(t, OutcomeReplaced, d.Outcome)

	ops := d.Subgraph.Ops()
	require.Len(t, ops, 2)
	assert.Equal(t, []int{0}, ops[0].Slots)
	assert.Equal(t, []int{1}, ops[1].Slots)

	landed := func(g ir.Gate, from rotation.Euler) rotation.Euler {
		e, err := GateEuler(g)
		require.NoError(t, err)
		out, err := rotation.Compose(e, from)
		require.NoError(t, err)
		return out
	}

	got := landed(ops[0].Gate, t1)
	assert.InDelta(t, t2.Theta, got.Theta, 1e-9)
	assert.InDelta(t, t2.Phi, got.Phi, 1e-9)

	got = landed(ops[1].Gate, t2)
	assert.InDelta(t, t1.Theta, got.Theta, 1e-9)
	assert.InDelta(t, t1.Phi, got.Phi, 1e-9)
}

func TestDecideSwapUnknownPair(t *testing.T) {
	d, err := decideSwap(storeOf(wirestate.Unknown(), wirestate.Unknown()), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, d.Outcome)
	assert.Equal(t, OrientationNone, d.Orientation)
}

func TestAsymmetricSlots(t *testing.T) {
	one := wirestate.Known(rotation.Euler{Theta: math.Pi, Lambda: math.Pi})

	d, err := decideSwap(storeOf(wirestate.Unknown(), one), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, OrientationRight, d.Orientation)

	// known slot 1, other slot 0: x o; aswap o,k
	ops := d.Subgraph.Ops()
	require.Len(t, ops, 2)
	assert.Equal(t, ir.KindX, ops[0].Gate.Kind)
	assert.Equal(t, []int{0}, ops[0].Slots)
	assert.Equal(t, ir.KindASwap, ops[1].Gate.Kind)
	assert.Equal(t, []int{0, 1}, ops[1].Slots)
}

func TestAsymmetricInvalidOrientation(t *testing.T) {
	d := Decision{States: [2]wirestate.State{wirestate.Known(rotation.Identity), wirestate.Unknown()}}
	_, err := asymmetric(d, Orientation("up"))
	require.Error(t, err)
	assert.True(t, IsInvalidOrientation(err))
	assert.False(t, IsUnsupportedGate(err))
}

func TestFromRotationMapsCodes(t *testing.T) {
	inconsistent := &rotation.Error{Code: rotation.ErrCodeInconsistent, Message: "mismatch"}
	err := fromRotation(inconsistent)
	assert.True(t, IsConsistencyViolation(err))
	var re *rotation.Error
	assert.True(t, errors.As(err, &re))

	_, rangeErr := rotation.Normalize(rotation.Euler{Theta: -1})
	err = fromRotation(rangeErr)
	assert.True(t, IsAngleOutOfRange(err))
	assert.False(t, IsConsistencyViolation(err))

	plain := errors.New("plain")
	assert.Same(t, plain, fromRotation(plain))
}
