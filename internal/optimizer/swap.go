package optimizer

import (
	"fmt"

	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/rotation"
	"github.com/roach88/purestate/internal/wirestate"
)

// decideSwap applies the SWAP decision table to wires w1 and w2. It does not
// touch the store; the caller exchanges the two entries afterwards.
func decideSwap(store *wirestate.Store, w1, w2 int) (Decision, error) {
	s1, s2 := store.Get(w1), store.Get(w2)
	d := Decision{
		Wires:   [2]ir.Wire{ir.Wire(w1), ir.Wire(w2)},
		States:  [2]wirestate.State{s1, s2},
		Outcome: OutcomeUnchanged,
		Rewrite: RewriteNone,
	}

	t1, known1 := s1.Euler()
	t2, known2 := s2.Euler()

	switch {
	case known1 && known2 && t1 == t2:
		d.Outcome = OutcomeRemoved
		return d, nil

	case known1 && known2:
		to2, err := rotation.Between(t1, t2)
		if err != nil {
			return Decision{}, fromRotation(err)
		}
		to1, err := rotation.Between(t2, t1)
		if err != nil {
			return Decision{}, fromRotation(err)
		}
		d.Outcome = OutcomeReplaced
		d.Rewrite = RewriteCorrections
		d.Subgraph = dag.NewSubgraph(2).
			Apply(u3(to2), 0).
			Apply(u3(to1), 1)
		return d, nil

	case known1:
		return asymmetric(d, OrientationLeft)

	case known2:
		return asymmetric(d, OrientationRight)
	}

	return d, nil
}

// asymmetric builds the ASWAP rewrite for a SWAP with exactly one known
// operand. k is the known slot and o the other.
//
//	zero:  aswap o,k
//	one:   x o;  aswap o,k
//	plus:  aswap k,o
//	minus: z o;  aswap k,o
//	t:     u3(t⁻¹) k;  aswap o,k;  u3(t) o
func asymmetric(d Decision, orient Orientation) (Decision, error) {
	var k, o int
	switch orient {
	case OrientationLeft:
		k, o = 0, 1
	case OrientationRight:
		k, o = 1, 0
	default:
		return Decision{}, &PassError{
			Code:    ErrCodeInvalidOrientation,
			Message: fmt.Sprintf("orientation %q is neither left nor right", orient),
		}
	}

	known := d.States[k]
	t, ok := known.Euler()
	if !ok {
		return Decision{}, fmt.Errorf("asymmetric rewrite: slot %d is not known", k)
	}

	aswap := ir.NewGate(ir.KindASwap)
	sub := dag.NewSubgraph(2)
	d.Basis = wirestate.Classify(known)

	switch d.Basis {
	case wirestate.BasisZero:
		sub.Apply(aswap, o, k)
		d.Rewrite = RewriteASwap
	case wirestate.BasisOne:
		sub.Apply(ir.NewGate(ir.KindX), o).Apply(aswap, o, k)
		d.Rewrite = RewriteASwapX
	case wirestate.BasisPlus:
		sub.Apply(aswap, k, o)
		d.Rewrite = RewriteASwap
	case wirestate.BasisMinus:
		sub.Apply(ir.NewGate(ir.KindZ), o).Apply(aswap, k, o)
		d.Rewrite = RewriteASwapZ
	default:
		sub.Apply(u3(rotation.Invert(t)), k).
			Apply(aswap, o, k).
			Apply(u3(t), o)
		d.Rewrite = RewriteASwapU3
	}

	d.Outcome = OutcomeReplaced
	d.Orientation = orient
	d.Subgraph = sub
	return d, nil
}
