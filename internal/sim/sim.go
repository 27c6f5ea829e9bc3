// Package sim is a small state-vector simulator used to check that an
// optimized circuit prepares the same state as its input.
//
// Wire q is bit q of the basis index. Simulation always starts from |0...0>.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/purestate/internal/ir"
)

// MaxQubits bounds the register width accepted by Run.
const MaxQubits = 20

// FidelityTolerance is the distance from 1 still reported as equivalent.
const FidelityTolerance = 1e-9

// matrix is a single-qubit gate [[a, b], [c, d]].
type matrix [4]complex128

// StateVector holds 2^n amplitudes.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0...0> on n qubits.
func NewStateVector(n int) *StateVector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: n}
}

// Run simulates spec from |0...0>. Barriers are skipped; measure and reset
// are rejected because the result would not be a single pure state.
func Run(spec *ir.CircuitSpec) (*StateVector, error) {
	if spec == nil {
		return nil, errors.New("sim: nil circuit")
	}
	if err := spec.Check(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if spec.NumQubits > MaxQubits {
		return nil, fmt.Errorf("sim: %d qubits exceeds limit of %d", spec.NumQubits, MaxQubits)
	}

	s := NewStateVector(spec.NumQubits)
	for i, inst := range spec.Instructions {
		if err := s.apply(inst); err != nil {
			return nil, fmt.Errorf("sim: instruction %d: %w", i, err)
		}
	}
	return s, nil
}

// Fidelity returns |<s|o>|^2.
func (s *StateVector) Fidelity(o *StateVector) float64 {
	var inner complex128
	for i := range s.Amplitudes {
		inner += cmplx.Conj(s.Amplitudes[i]) * o.Amplitudes[i]
	}
	m := cmplx.Abs(inner)
	return m * m
}

// Probabilities returns |amplitude|^2 per basis state.
func (s *StateVector) Probabilities() []float64 {
	out := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		out[i] = real(a * cmplx.Conj(a))
	}
	return out
}

// Equivalent simulates both circuits and compares the final states up to
// global phase. It returns the fidelity alongside the verdict.
func Equivalent(a, b *ir.CircuitSpec) (bool, float64, error) {
	if a == nil || b == nil {
		return false, 0, errors.New("sim: nil circuit")
	}
	if a.NumQubits != b.NumQubits {
		return false, 0, fmt.Errorf("sim: register widths differ (%d vs %d)", a.NumQubits, b.NumQubits)
	}
	sa, err := Run(a)
	if err != nil {
		return false, 0, err
	}
	sb, err := Run(b)
	if err != nil {
		return false, 0, err
	}
	fid := sa.Fidelity(sb)
	return scalar.EqualWithinAbs(fid, 1, FidelityTolerance), fid, nil
}

func (s *StateVector) apply(inst ir.Instruction) error {
	g := inst.Gate
	w := make([]int, len(inst.Wires))
	for i, x := range inst.Wires {
		w[i] = int(x)
	}

	switch g.Kind {
	case ir.KindBarrier:
		return nil
	case ir.KindMeasure, ir.KindReset:
		return fmt.Errorf("%s is not unitary", g.Kind)
	case ir.KindSwap:
		s.applySWAP(w[0], w[1])
		return nil
	case ir.KindASwap:
		s.applyCX(w[0], w[1])
		s.applyCX(w[1], w[0])
		return nil
	case ir.KindCCX:
		s.applyCCX(w[0], w[1], w[2])
		return nil
	}

	switch g.Class() {
	case ir.ClassRotation:
		m, err := single(g.Kind, g.Params)
		if err != nil {
			return err
		}
		s.apply1(w[0], m)
		return nil
	case ir.ClassControlled:
		m, err := single(controlledBase[g.Kind], g.Params)
		if err != nil {
			return err
		}
		s.applyControlled(w[0], w[1], m)
		return nil
	}
	return fmt.Errorf("unsupported gate %q", g.Kind)
}

// controlledBase maps a controlled kind to the gate applied to its target.
var controlledBase = map[ir.GateKind]ir.GateKind{
	ir.KindCX:  ir.KindX,
	ir.KindCY:  ir.KindY,
	ir.KindCZ:  ir.KindZ,
	ir.KindCH:  ir.KindH,
	ir.KindCRX: ir.KindRX,
	ir.KindCRY: ir.KindRY,
	ir.KindCRZ: ir.KindRZ,
	ir.KindCP:  ir.KindP,
	ir.KindCU1: ir.KindU1,
}

func single(kind ir.GateKind, p []float64) (matrix, error) {
	s2 := complex(1/math.Sqrt2, 0)
	switch kind {
	case ir.KindX:
		return matrix{0, 1, 1, 0}, nil
	case ir.KindY:
		return matrix{0, -1i, 1i, 0}, nil
	case ir.KindZ:
		return matrix{1, 0, 0, -1}, nil
	case ir.KindH:
		return matrix{s2, s2, s2, -s2}, nil
	case ir.KindS:
		return phase(math.Pi / 2), nil
	case ir.KindSdg:
		return phase(-math.Pi / 2), nil
	case ir.KindT:
		return phase(math.Pi / 4), nil
	case ir.KindTdg:
		return phase(-math.Pi / 4), nil
	case ir.KindRX:
		c, sn := complex(math.Cos(p[0]/2), 0), complex(0, -math.Sin(p[0]/2))
		return matrix{c, sn, sn, c}, nil
	case ir.KindRY:
		c, sn := complex(math.Cos(p[0]/2), 0), complex(math.Sin(p[0]/2), 0)
		return matrix{c, -sn, sn, c}, nil
	case ir.KindRZ:
		return matrix{cmplx.Exp(complex(0, -p[0]/2)), 0, 0, cmplx.Exp(complex(0, p[0]/2))}, nil
	case ir.KindP, ir.KindU1:
		return phase(p[0]), nil
	case ir.KindU2:
		return u3(math.Pi/2, p[0], p[1]), nil
	case ir.KindU3:
		return u3(p[0], p[1], p[2]), nil
	}
	return matrix{}, fmt.Errorf("no matrix for %q", kind)
}

func phase(l float64) matrix {
	return matrix{1, 0, 0, cmplx.Exp(complex(0, l))}
}

func u3(theta, phi, lambda float64) matrix {
	c, sn := math.Cos(theta/2), math.Sin(theta/2)
	return matrix{
		complex(c, 0),
		-cmplx.Exp(complex(0, lambda)) * complex(sn, 0),
		cmplx.Exp(complex(0, phi)) * complex(sn, 0),
		cmplx.Exp(complex(0, phi+lambda)) * complex(c, 0),
	}
}

func (s *StateVector) apply1(q int, m matrix) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0]*a0 + m[1]*a1
			s.Amplitudes[j] = m[2]*a0 + m[3]*a1
		}
	}
}

func (s *StateVector) applyControlled(control, target int, m matrix) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0]*a0 + m[1]*a1
			s.Amplitudes[j] = m[2]*a0 + m[3]*a1
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCCX(c1, c2, target int) {
	mask := 1<<c1 | 1<<c2
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&mask == mask && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}
