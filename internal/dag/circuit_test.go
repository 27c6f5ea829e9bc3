package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purestate/internal/ir"
)

func kinds(c *Circuit) []ir.GateKind {
	var out []ir.GateKind
	for _, n := range c.Nodes() {
		out = append(out, n.Gate.Kind)
	}
	return out
}

func sample(t *testing.T) *Circuit {
	t.Helper()
	spec := &ir.CircuitSpec{Name: "sample", NumQubits: 3}
	spec.Append(ir.NewGate(ir.KindH), 0).
		Append(ir.NewGate(ir.KindX), 1).
		Append(ir.NewGate(ir.KindSwap), 0, 1).
		Append(ir.NewGate(ir.KindCX), 1, 2)
	c, err := FromSpec(spec)
	require.NoError(t, err)
	return c
}

func TestFromSpecRejectsBadSpec(t *testing.T) {
	spec := &ir.CircuitSpec{Name: "bad", NumQubits: 1}
	spec.Append(ir.NewGate(ir.KindCX), 0, 1)
	_, err := FromSpec(spec)
	assert.Error(t, err)

	_, err = FromSpec(nil)
	assert.Error(t, err)
}

func TestApplyValidatesOperands(t *testing.T) {
	c := New("c", 2)
	_, err := c.Apply(ir.NewGate(ir.KindX), 2)
	assert.ErrorContains(t, err, "out of range")

	_, err = c.Apply(ir.NewGate(ir.KindSwap), 0, 0)
	assert.ErrorContains(t, err, "used twice")

	_, err = c.Apply(ir.NewGate(ir.KindCX), 0)
	assert.ErrorContains(t, err, "wire(s)")

	id, err := c.Apply(ir.NewGate(ir.KindH), 1)
	require.NoError(t, err)
	n, ok := c.Node(id)
	require.True(t, ok)
	assert.Equal(t, []ir.Wire{1}, n.Wires)
}

func TestTopologicalOrderIsSnapshot(t *testing.T) {
	c := sample(t)
	order := c.TopologicalOrder()
	require.Len(t, order, 4)

	require.NoError(t, c.RemoveNode(order[0]))
	assert.Len(t, order, 4)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []ir.GateKind{ir.KindX, ir.KindSwap, ir.KindCX}, kinds(c))
}

func TestPredecessors(t *testing.T) {
	c := sample(t)
	order := c.TopologicalOrder()

	preds, err := c.Predecessors(order[2])
	require.NoError(t, err)
	assert.ElementsMatch(t, []NodeID{order[0], order[1]}, preds)

	preds, err = c.Predecessors(order[3])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{order[2]}, preds)

	preds, err = c.Predecessors(order[0])
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestRemoveMissingNode(t *testing.T) {
	c := sample(t)
	assert.ErrorIs(t, c.RemoveNode(99), ErrNodeNotFound)
}

func TestSubstituteNodeSplicesInPlace(t *testing.T) {
	c := sample(t)
	order := c.TopologicalOrder()
	swap := order[2]

	sub := NewSubgraph(2).
		Apply(ir.NewGate(ir.KindX), 1).
		Apply(ir.NewGate(ir.KindASwap), 1, 0)

	ids, err := c.SubstituteNode(swap, sub)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	assert.Equal(t, []ir.GateKind{ir.KindH, ir.KindX, ir.KindX, ir.KindASwap, ir.KindCX}, kinds(c))

	x, _ := c.Node(ids[0])
	assert.Equal(t, []ir.Wire{1}, x.Wires)
	aswap, _ := c.Node(ids[1])
	assert.Equal(t, []ir.Wire{1, 0}, aswap.Wires)

	_, ok := c.Node(swap)
	assert.False(t, ok)

	// IDs are fresh, never reused.
	for _, id := range ids {
		assert.NotContains(t, order, id)
	}
}

func TestSubstituteNodeSlotMismatch(t *testing.T) {
	c := sample(t)
	order := c.TopologicalOrder()
	_, err := c.SubstituteNode(order[0], NewSubgraph(2))
	assert.ErrorContains(t, err, "slot")

	_, err = c.SubstituteNode(99, NewSubgraph(1))
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSubstituteEmptySubgraphRemoves(t *testing.T) {
	c := sample(t)
	order := c.TopologicalOrder()
	ids, err := c.SubstituteNode(order[2], NewSubgraph(2))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 3, c.Len())
}

func TestSubgraphApplyPanicsOnBadSlot(t *testing.T) {
	assert.Panics(t, func() {
		NewSubgraph(2).Apply(ir.NewGate(ir.KindX), 2)
	})
}

func TestCloneIsIndependent(t *testing.T) {
	c := sample(t)
	clone := c.Clone()

	require.NoError(t, clone.RemoveNode(clone.TopologicalOrder()[0]))
	clone.Nodes()[0].Wires[0] = 2

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, ir.Wire(1), c.Nodes()[1].Wires[0])
}

func TestAdopt(t *testing.T) {
	c := sample(t)
	clone := c.Clone()
	require.NoError(t, clone.RemoveNode(clone.TopologicalOrder()[2]))

	c.Adopt(clone)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "sample", c.Name())
}

func TestDepthAndCounts(t *testing.T) {
	c := sample(t)
	// h and x share a layer, then swap, then cx.
	assert.Equal(t, 3, c.Depth())

	counts := c.CountByKind()
	assert.Equal(t, 1, counts[ir.KindSwap])
	assert.Equal(t, 1, counts[ir.KindCX])
	assert.Zero(t, counts[ir.KindASwap])
}

func TestSpecRoundTrip(t *testing.T) {
	c := sample(t)
	spec := c.Spec()
	require.NoError(t, spec.Check())

	again, err := FromSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, kinds(c), kinds(again))
	assert.Equal(t, ir.MustCircuitHash(spec), ir.MustCircuitHash(again.Spec()))
}
