package optimizer

import (
	"fmt"
	"math"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/rotation"
)

// fixedEuler holds the triples of the parameterless rotation gates.
var fixedEuler = map[ir.GateKind]rotation.Euler{
	ir.KindX:   {Theta: math.Pi, Phi: 0, Lambda: math.Pi},
	ir.KindY:   {Theta: math.Pi, Phi: math.Pi / 2, Lambda: math.Pi / 2},
	ir.KindZ:   {Theta: 0, Phi: 0, Lambda: math.Pi},
	ir.KindH:   {Theta: math.Pi / 2, Phi: 0, Lambda: math.Pi},
	ir.KindS:   {Theta: 0, Phi: 0, Lambda: math.Pi / 2},
	ir.KindSdg: {Theta: 0, Phi: 0, Lambda: 3 * math.Pi / 2},
	ir.KindT:   {Theta: 0, Phi: 0, Lambda: math.Pi / 4},
	ir.KindTdg: {Theta: 0, Phi: 0, Lambda: 7 * math.Pi / 4},
}

// GateEuler returns the U3 triple of a single-qubit rotation gate.
func GateEuler(g ir.Gate) (rotation.Euler, error) {
	info, ok := ir.LookupGate(g.Kind)
	if !ok || info.Class != ir.ClassRotation {
		return rotation.Euler{}, &PassError{
			Code:    ErrCodeUnsupportedGate,
			Message: fmt.Sprintf("gate %q has no rotation form", g.Kind),
		}
	}
	if len(g.Params) != info.Params {
		return rotation.Euler{}, &PassError{
			Code:    ErrCodeUnsupportedGate,
			Message: fmt.Sprintf("gate %s takes %d parameter(s), got %d", g.Kind, info.Params, len(g.Params)),
		}
	}
	for _, p := range g.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return rotation.Euler{}, &PassError{
				Code:    ErrCodeAngleOutOfRange,
				Message: fmt.Sprintf("gate %s has non-finite parameter", g),
			}
		}
	}

	if e, ok := fixedEuler[g.Kind]; ok {
		return e, nil
	}

	p := g.Params
	switch g.Kind {
	case ir.KindRX:
		return rotation.Euler{Theta: p[0], Phi: 3 * math.Pi / 2, Lambda: math.Pi / 2}, nil
	case ir.KindRY:
		return rotation.Euler{Theta: p[0]}, nil
	case ir.KindRZ, ir.KindP, ir.KindU1:
		return rotation.Euler{Lambda: p[0]}, nil
	case ir.KindU2:
		return rotation.Euler{Theta: math.Pi / 2, Phi: p[0], Lambda: p[1]}, nil
	case ir.KindU3:
		return rotation.Euler{Theta: p[0], Phi: p[1], Lambda: p[2]}, nil
	}

	return rotation.Euler{}, &PassError{
		Code:    ErrCodeUnsupportedGate,
		Message: fmt.Sprintf("rotation gate %q missing from table", g.Kind),
	}
}

// u3 renders a triple as a gate.
func u3(e rotation.Euler) ir.Gate {
	return ir.NewGate(ir.KindU3, e.Theta, e.Phi, e.Lambda)
}
