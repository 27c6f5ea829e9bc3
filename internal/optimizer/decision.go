package optimizer

import (
	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/wirestate"
)

// Outcome is what happened to a SWAP node.
type Outcome string

const (
	OutcomeRemoved   Outcome = "removed"
	OutcomeReplaced  Outcome = "replaced"
	OutcomeUnchanged Outcome = "unchanged"
)

// Orientation records which operand of a one-known SWAP was known:
// left for the first operand, right for the second.
type Orientation string

const (
	OrientationNone  Orientation = ""
	OrientationLeft  Orientation = "left"
	OrientationRight Orientation = "right"
)

// Rewrite names the replacement family.
type Rewrite string

const (
	RewriteNone        Rewrite = "none"
	RewriteCorrections Rewrite = "u3-pair"
	RewriteASwap       Rewrite = "aswap"
	RewriteASwapX      Rewrite = "aswap-x"
	RewriteASwapZ      Rewrite = "aswap-z"
	RewriteASwapU3     Rewrite = "aswap-u3"
)

// Decision is the record of one SWAP visit.
type Decision struct {
	NodeID dag.NodeID
	Wires  [2]ir.Wire

	Outcome     Outcome
	Rewrite     Rewrite
	Orientation Orientation

	// Basis is the class of the known operand for one-known rewrites.
	Basis wirestate.Basis

	// States holds the operand states before the exchange.
	States [2]wirestate.State

	// Subgraph is the replacement over slots (0 = first operand, 1 = second)
	// when Outcome is OutcomeReplaced.
	Subgraph *dag.Subgraph

	// Replacement lists the spliced node IDs.
	Replacement []dag.NodeID
}

// Stats counts decisions by outcome.
type Stats struct {
	Swaps     int `json:"swaps"`
	Removed   int `json:"removed"`
	Replaced  int `json:"replaced"`
	Unchanged int `json:"unchanged"`
}

// Result is a completed pass.
type Result struct {
	Circuit   *dag.Circuit
	Decisions []Decision

	// Final is the wire knowledge at the end of the walk.
	Final []wirestate.State
}

// Stats summarizes r.Decisions.
func (r *Result) Stats() Stats {
	var s Stats
	for _, d := range r.Decisions {
		s.Swaps++
		switch d.Outcome {
		case OutcomeRemoved:
			s.Removed++
		case OutcomeReplaced:
			s.Replaced++
		case OutcomeUnchanged:
			s.Unchanged++
		}
	}
	return s
}
