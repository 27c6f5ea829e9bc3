package dag

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/purestate/internal/ir"
)

// ErrNodeNotFound is returned when a NodeID does not name a live node.
var ErrNodeNotFound = errors.New("node not found")

// NodeID identifies a node for the lifetime of a Circuit. IDs are never
// reused, including after removal.
type NodeID int

// Node is one gate application.
type Node struct {
	ID     NodeID
	Gate   ir.Gate
	Wires  []ir.Wire
	Clbits []int
}

// String renders the node as "id:gate wires".
func (n *Node) String() string {
	return fmt.Sprintf("%d:%s %v", n.ID, n.Gate, n.Wires)
}

// Circuit is an ordered operation graph over a fixed register of wires.
//
// INVARIANTS:
//   - order contains exactly the keys of nodes
//   - every node's wires are distinct and in [0, NumQubits)
type Circuit struct {
	name      string
	numQubits int
	numClbits int
	nodes     map[NodeID]*Node
	order     []NodeID
	nextID    NodeID
}

// New returns an empty circuit over numQubits wires.
func New(name string, numQubits int) *Circuit {
	return &Circuit{
		name:      name,
		numQubits: numQubits,
		nodes:     make(map[NodeID]*Node),
	}
}

// FromSpec builds a circuit from a checked instruction list.
func FromSpec(spec *ir.CircuitSpec) (*Circuit, error) {
	if spec == nil {
		return nil, errors.New("nil circuit spec")
	}
	if err := spec.Check(); err != nil {
		return nil, err
	}
	c := New(spec.Name, spec.NumQubits)
	c.numClbits = spec.NumClbits
	for _, inst := range spec.Instructions {
		id := c.push(inst.Gate, inst.Wires)
		if len(inst.Clbits) > 0 {
			c.nodes[id].Clbits = append([]int(nil), inst.Clbits...)
		}
	}
	return c, nil
}

// Name returns the circuit name.
func (c *Circuit) Name() string { return c.name }

// NumQubits returns the register width.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of live nodes.
func (c *Circuit) Len() int { return len(c.order) }

// Apply appends a gate on wires and returns its ID.
func (c *Circuit) Apply(g ir.Gate, wires ...ir.Wire) (NodeID, error) {
	if err := c.checkOperands(g, wires); err != nil {
		return 0, err
	}
	return c.push(g, wires), nil
}

func (c *Circuit) push(g ir.Gate, wires []ir.Wire) NodeID {
	id := c.nextID
	c.nextID++
	c.nodes[id] = &Node{
		ID:    id,
		Gate:  ir.NewGate(g.Kind, g.Params...),
		Wires: append([]ir.Wire(nil), wires...),
	}
	c.order = append(c.order, id)
	return id
}

func (c *Circuit) checkOperands(g ir.Gate, wires []ir.Wire) error {
	info, ok := ir.LookupGate(g.Kind)
	if !ok {
		return fmt.Errorf("unknown gate %q", g.Kind)
	}
	if info.Wires > 0 && len(wires) != info.Wires {
		return fmt.Errorf("%s takes %d wire(s), got %d", g.Kind, info.Wires, len(wires))
	}
	for i, w := range wires {
		if w < 0 || int(w) >= c.numQubits {
			return fmt.Errorf("%s: wire %d out of range [0,%d)", g.Kind, w, c.numQubits)
		}
		if slices.Contains(wires[:i], w) {
			return fmt.Errorf("%s: wire %d used twice", g.Kind, w)
		}
	}
	return nil
}

// Node returns the live node with the given ID.
func (c *Circuit) Node(id NodeID) (*Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// TopologicalOrder returns a snapshot of the node order. Later rewrites do
// not affect the returned slice.
func (c *Circuit) TopologicalOrder() []NodeID {
	return slices.Clone(c.order)
}

// Nodes returns the live nodes in order.
func (c *Circuit) Nodes() []*Node {
	out := make([]*Node, len(c.order))
	for i, id := range c.order {
		out[i] = c.nodes[id]
	}
	return out
}

// Predecessors returns, for each operand wire of id, the closest earlier
// node on that wire. Wires with no earlier node are skipped.
func (c *Circuit) Predecessors(id NodeID) ([]NodeID, error) {
	idx := c.index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	var preds []NodeID
	for _, w := range c.nodes[id].Wires {
		for j := idx - 1; j >= 0; j-- {
			prev := c.nodes[c.order[j]]
			if slices.Contains(prev.Wires, w) {
				if !slices.Contains(preds, prev.ID) {
					preds = append(preds, prev.ID)
				}
				break
			}
		}
	}
	return preds, nil
}

// RemoveNode deletes a node.
func (c *Circuit) RemoveNode(id NodeID) error {
	idx := c.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	c.order = slices.Delete(c.order, idx, idx+1)
	delete(c.nodes, id)
	return nil
}

// SubstituteNode replaces node id by the operations of sub, binding slot i to
// the node's i-th operand wire. The new nodes take the removed node's
// position and keep sub's order. An empty subgraph removes the node.
func (c *Circuit) SubstituteNode(id NodeID, sub *Subgraph) ([]NodeID, error) {
	idx := c.index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	old := c.nodes[id]
	if sub.Slots() != len(old.Wires) {
		return nil, fmt.Errorf("substitute node %d: subgraph has %d slot(s), node has %d wire(s)",
			id, sub.Slots(), len(old.Wires))
	}

	created := make([]*Node, 0, len(sub.ops))
	for _, op := range sub.ops {
		wires := make([]ir.Wire, len(op.Slots))
		for i, s := range op.Slots {
			wires[i] = old.Wires[s]
		}
		if err := c.checkOperands(op.Gate, wires); err != nil {
			return nil, fmt.Errorf("substitute node %d: %w", id, err)
		}
		created = append(created, &Node{Gate: ir.NewGate(op.Gate.Kind, op.Gate.Params...), Wires: wires})
	}

	ids := make([]NodeID, len(created))
	for i, n := range created {
		n.ID = c.nextID
		c.nextID++
		c.nodes[n.ID] = n
		ids[i] = n.ID
	}
	delete(c.nodes, id)
	c.order = slices.Replace(c.order, idx, idx+1, ids...)
	return ids, nil
}

func (c *Circuit) index(id NodeID) int {
	if _, ok := c.nodes[id]; !ok {
		return -1
	}
	return slices.Index(c.order, id)
}

// Clone returns a deep copy. IDs are preserved.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{
		name:      c.name,
		numQubits: c.numQubits,
		numClbits: c.numClbits,
		nodes:     make(map[NodeID]*Node, len(c.nodes)),
		order:     slices.Clone(c.order),
		nextID:    c.nextID,
	}
	for id, n := range c.nodes {
		out.nodes[id] = &Node{
			ID:     n.ID,
			Gate:   ir.NewGate(n.Gate.Kind, n.Gate.Params...),
			Wires:  slices.Clone(n.Wires),
			Clbits: slices.Clone(n.Clbits),
		}
	}
	return out
}

// Adopt replaces the contents of c with those of other. other must not be
// used afterwards.
func (c *Circuit) Adopt(other *Circuit) {
	*c = *other
}

// Depth returns the number of layers when every node is scheduled as early
// as its wires allow.
func (c *Circuit) Depth() int {
	level := make([]int, c.numQubits)
	depth := 0
	for _, id := range c.order {
		n := c.nodes[id]
		d := 0
		for _, w := range n.Wires {
			d = max(d, level[w])
		}
		d++
		for _, w := range n.Wires {
			level[w] = d
		}
		depth = max(depth, d)
	}
	return depth
}

// CountByKind returns how many nodes of each gate kind are present.
func (c *Circuit) CountByKind() map[ir.GateKind]int {
	counts := make(map[ir.GateKind]int)
	for _, n := range c.nodes {
		counts[n.Gate.Kind]++
	}
	return counts
}

// Spec flattens the circuit back into an instruction list.
func (c *Circuit) Spec() *ir.CircuitSpec {
	spec := &ir.CircuitSpec{
		Name:      c.name,
		NumQubits: c.numQubits,
		NumClbits: c.numClbits,
	}
	for _, id := range c.order {
		n := c.nodes[id]
		spec.Instructions = append(spec.Instructions, ir.Instruction{
			Gate:   ir.NewGate(n.Gate.Kind, n.Gate.Params...),
			Wires:  slices.Clone(n.Wires),
			Clbits: slices.Clone(n.Clbits),
		})
	}
	return spec
}
