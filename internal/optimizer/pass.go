package optimizer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/purestate/internal/dag"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/rotation"
	"github.com/roach88/purestate/internal/wirestate"
)

// Pass is a configured optimizer. It holds no per-run state, so one Pass may
// run many circuits, including concurrently on different circuits.
type Pass struct {
	logger        *slog.Logger
	unknownInputs []ir.Wire
	trackReset    bool
}

// Option configures a Pass.
type Option func(*Pass)

// WithLogger sets the logger for decisions (debug) and run summaries (info).
func WithLogger(l *slog.Logger) Option {
	return func(p *Pass) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithUnknownInputs marks wires whose initial preparation is not |0>.
func WithUnknownInputs(wires ...ir.Wire) Option {
	return func(p *Pass) {
		p.unknownInputs = append(p.unknownInputs, wires...)
	}
}

// WithResetTracking makes reset put its wire back into a known |0>.
// Off by default, in which case reset makes the wire Unknown.
func WithResetTracking(enabled bool) Option {
	return func(p *Pass) {
		p.trackReset = enabled
	}
}

// New returns a Pass with the given options.
func New(opts ...Option) *Pass {
	p := &Pass{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run optimizes c in place and returns it. On error c is unchanged and the
// returned circuit is nil.
func (p *Pass) Run(c *dag.Circuit) (*dag.Circuit, error) {
	res, err := p.Optimize(c)
	if err != nil {
		return nil, err
	}
	return res.Circuit, nil
}

// Optimize is Run plus the decision record of every SWAP visited.
func (p *Pass) Optimize(c *dag.Circuit) (*Result, error) {
	if c == nil {
		return nil, errors.New("optimize: nil circuit")
	}

	work := c.Clone()
	w := &walker{
		pass:    p,
		circuit: work,
		store:   wirestate.NewStore(work.NumQubits(), wirestate.Known(rotation.Identity)),
	}
	for _, wire := range p.unknownInputs {
		if wire < 0 || int(wire) >= work.NumQubits() {
			return nil, fmt.Errorf("optimize: unknown input wire %d out of range [0,%d)", wire, work.NumQubits())
		}
		w.store.Set(int(wire), wirestate.Unknown())
	}

	for _, id := range work.TopologicalOrder() {
		node, ok := work.Node(id)
		if !ok {
			continue
		}
		if err := w.visit(node); err != nil {
			err = atNode(err, node)
			p.logger.Error("pass aborted",
				"circuit", c.Name(),
				"node", node.String(),
				"error", err)
			return nil, err
		}
	}

	c.Adopt(work)
	res := &Result{
		Circuit:   c,
		Decisions: w.decisions,
		Final:     w.store.Snapshot(),
	}
	stats := res.Stats()
	p.logger.Info("pass complete",
		"circuit", c.Name(),
		"swaps", stats.Swaps,
		"removed", stats.Removed,
		"replaced", stats.Replaced,
		"unchanged", stats.Unchanged)
	return res, nil
}

// walker is the per-run state of one Optimize call.
type walker struct {
	pass      *Pass
	circuit   *dag.Circuit
	store     *wirestate.Store
	decisions []Decision
}

func (w *walker) visit(n *dag.Node) error {
	switch n.Gate.Class() {
	case ir.ClassRotation:
		return w.rotate(n)
	case ir.ClassSwap:
		return w.swap(n)
	case ir.ClassControlled:
		w.forget(n)
		return nil
	}

	if n.Gate.Kind == ir.KindReset && w.pass.trackReset {
		w.store.Set(int(n.Wires[0]), wirestate.Known(rotation.Identity))
		return nil
	}
	w.forget(n)
	return nil
}

func (w *walker) forget(n *dag.Node) {
	for _, wire := range n.Wires {
		w.store.Set(int(wire), wirestate.Unknown())
	}
}

func (w *walker) rotate(n *dag.Node) error {
	if len(n.Wires) != 1 {
		return &PassError{
			Code:    ErrCodeUnsupportedGate,
			Message: fmt.Sprintf("rotation gate %s on %d wires", n.Gate.Kind, len(n.Wires)),
		}
	}
	g, err := GateEuler(n.Gate)
	if err != nil {
		return err
	}

	wire := int(n.Wires[0])
	cur, known := w.store.Get(wire).Euler()
	if !known {
		return nil
	}
	next, err := rotation.Compose(g, cur)
	if err != nil {
		return fromRotation(err)
	}
	w.store.Set(wire, wirestate.Known(next))
	return nil
}

func (w *walker) swap(n *dag.Node) error {
	a, b := int(n.Wires[0]), int(n.Wires[1])
	d, err := decideSwap(w.store, a, b)
	if err != nil {
		return err
	}
	d.NodeID = n.ID

	switch d.Outcome {
	case OutcomeRemoved:
		if err := w.circuit.RemoveNode(n.ID); err != nil {
			return err
		}
	case OutcomeReplaced:
		ids, err := w.circuit.SubstituteNode(n.ID, d.Subgraph)
		if err != nil {
			return err
		}
		d.Replacement = ids
	}
	w.store.Exchange(a, b)

	attrs := []any{
		"node", n.ID,
		"wires", fmt.Sprintf("%d,%d", a, b),
		"outcome", d.Outcome,
		"rewrite", d.Rewrite,
	}
	if d.Orientation != OrientationNone {
		attrs = append(attrs, "orientation", d.Orientation, "basis", d.Basis.String())
	}
	w.pass.logger.Debug("swap decided", attrs...)

	w.decisions = append(w.decisions, d)
	return nil
}
