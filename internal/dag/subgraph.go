package dag

import (
	"fmt"
	"strings"

	"github.com/roach88/purestate/internal/ir"
)

// SubOp is one operation of a Subgraph, addressed by local slot.
type SubOp struct {
	Gate  ir.Gate
	Slots []int
}

// Subgraph is a free-standing gate list over local wire slots 0..n-1, used as
// the replacement in SubstituteNode.
type Subgraph struct {
	slots int
	ops   []SubOp
}

// NewSubgraph returns an empty subgraph with the given number of slots.
func NewSubgraph(slots int) *Subgraph {
	return &Subgraph{slots: slots}
}

// Apply appends a gate on local slots. It panics on a slot outside
// [0, Slots()), which is a programming error in the caller.
func (s *Subgraph) Apply(g ir.Gate, slots ...int) *Subgraph {
	for _, sl := range slots {
		if sl < 0 || sl >= s.slots {
			panic(fmt.Sprintf("dag: subgraph slot %d out of range [0,%d)", sl, s.slots))
		}
	}
	s.ops = append(s.ops, SubOp{
		Gate:  ir.NewGate(g.Kind, g.Params...),
		Slots: append([]int(nil), slots...),
	})
	return s
}

// Slots returns the number of local wire slots.
func (s *Subgraph) Slots() int { return s.slots }

// Len returns the number of operations.
func (s *Subgraph) Len() int { return len(s.ops) }

// Ops returns a copy of the operations in order.
func (s *Subgraph) Ops() []SubOp {
	out := make([]SubOp, len(s.ops))
	copy(out, s.ops)
	return out
}

// String renders the subgraph as "gate slots; gate slots".
func (s *Subgraph) String() string {
	parts := make([]string, len(s.ops))
	for i, op := range s.ops {
		parts[i] = fmt.Sprintf("%s %v", op.Gate, op.Slots)
	}
	return strings.Join(parts, "; ")
}
