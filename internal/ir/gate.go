package ir

import (
	"fmt"
	"sort"
	"strings"
)

// GateKind names a gate in the catalogue. Values are the lower-case
// OpenQASM 2.0 mnemonics.
type GateKind string

// Single-qubit rotation gates. These are the only gates whose effect on a
// wire is tracked exactly.
const (
	KindX   GateKind = "x"
	KindY   GateKind = "y"
	KindZ   GateKind = "z"
	KindH   GateKind = "h"
	KindS   GateKind = "s"
	KindSdg GateKind = "sdg"
	KindT   GateKind = "t"
	KindTdg GateKind = "tdg"
	KindRX  GateKind = "rx"
	KindRY  GateKind = "ry"
	KindRZ  GateKind = "rz"
	KindP   GateKind = "p"
	KindU1  GateKind = "u1"
	KindU2  GateKind = "u2"
	KindU3  GateKind = "u3"
)

// Two-wire exchange gates.
const (
	KindSwap GateKind = "swap"

	// KindASwap is the asymmetric exchange primitive: cx a,b; cx b,a.
	// It equals a full SWAP when b holds |0> or a holds |+>.
	KindASwap GateKind = "aswap"
)

// Controlled gates.
const (
	KindCX  GateKind = "cx"
	KindCY  GateKind = "cy"
	KindCZ  GateKind = "cz"
	KindCH  GateKind = "ch"
	KindCRX GateKind = "crx"
	KindCRY GateKind = "cry"
	KindCRZ GateKind = "crz"
	KindCP  GateKind = "cp"
	KindCU1 GateKind = "cu1"
	KindCCX GateKind = "ccx"
)

// Non-unitary and structural operations.
const (
	KindMeasure GateKind = "measure"
	KindReset   GateKind = "reset"
	KindBarrier GateKind = "barrier"
)

// Class partitions the catalogue by how the optimizer treats a gate.
type Class int

const (
	// ClassOther covers everything the optimizer does not model; touching
	// a wire with it forgets what was known about that wire.
	ClassOther Class = iota

	// ClassRotation is a single-qubit unitary with a known Euler form.
	ClassRotation

	// ClassSwap is the full two-wire exchange.
	ClassSwap

	// ClassControlled is any gate with one or more control wires.
	ClassControlled
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassRotation:
		return "rotation"
	case ClassSwap:
		return "swap"
	case ClassControlled:
		return "controlled"
	default:
		return "other"
	}
}

// GateInfo describes a catalogue entry.
type GateInfo struct {
	Class Class

	// Wires is the operand count. Zero means variadic (barrier).
	Wires int

	// Params is the number of angle parameters.
	Params int

	// Unitary is false for measure, reset and barrier.
	Unitary bool
}

// Catalogue is the closed set of gates understood by every package.
var Catalogue = map[GateKind]GateInfo{
	KindX:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindY:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindZ:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindH:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindS:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindSdg: {Class: ClassRotation, Wires: 1, Unitary: true},
	KindT:   {Class: ClassRotation, Wires: 1, Unitary: true},
	KindTdg: {Class: ClassRotation, Wires: 1, Unitary: true},
	KindRX:  {Class: ClassRotation, Wires: 1, Params: 1, Unitary: true},
	KindRY:  {Class: ClassRotation, Wires: 1, Params: 1, Unitary: true},
	KindRZ:  {Class: ClassRotation, Wires: 1, Params: 1, Unitary: true},
	KindP:   {Class: ClassRotation, Wires: 1, Params: 1, Unitary: true},
	KindU1:  {Class: ClassRotation, Wires: 1, Params: 1, Unitary: true},
	KindU2:  {Class: ClassRotation, Wires: 1, Params: 2, Unitary: true},
	KindU3:  {Class: ClassRotation, Wires: 1, Params: 3, Unitary: true},

	KindSwap:  {Class: ClassSwap, Wires: 2, Unitary: true},
	KindASwap: {Class: ClassOther, Wires: 2, Unitary: true},

	KindCX:  {Class: ClassControlled, Wires: 2, Unitary: true},
	KindCY:  {Class: ClassControlled, Wires: 2, Unitary: true},
	KindCZ:  {Class: ClassControlled, Wires: 2, Unitary: true},
	KindCH:  {Class: ClassControlled, Wires: 2, Unitary: true},
	KindCRX: {Class: ClassControlled, Wires: 2, Params: 1, Unitary: true},
	KindCRY: {Class: ClassControlled, Wires: 2, Params: 1, Unitary: true},
	KindCRZ: {Class: ClassControlled, Wires: 2, Params: 1, Unitary: true},
	KindCP:  {Class: ClassControlled, Wires: 2, Params: 1, Unitary: true},
	KindCU1: {Class: ClassControlled, Wires: 2, Params: 1, Unitary: true},
	KindCCX: {Class: ClassControlled, Wires: 3, Unitary: true},

	KindMeasure: {Class: ClassOther, Wires: 1},
	KindReset:   {Class: ClassOther, Wires: 1},
	KindBarrier: {Class: ClassOther, Wires: 0},
}

// LookupGate returns the catalogue entry for kind.
func LookupGate(kind GateKind) (GateInfo, bool) {
	info, ok := Catalogue[kind]
	return info, ok
}

// Class returns the optimizer class of kind. Unknown kinds are ClassOther.
func (k GateKind) Class() Class {
	return Catalogue[k].Class
}

// Known reports whether kind is in the catalogue.
func (k GateKind) Known() bool {
	_, ok := Catalogue[k]
	return ok
}

// ParseGateKind maps a mnemonic (any case) to a catalogue kind.
func ParseGateKind(s string) (GateKind, error) {
	k := GateKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Known() {
		return "", fmt.Errorf("unknown gate %q", s)
	}
	return k, nil
}

// Kinds returns every catalogue kind in sorted order.
func Kinds() []GateKind {
	kinds := make([]GateKind, 0, len(Catalogue))
	for k := range Catalogue {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Gate is a gate kind with its parameters.
type Gate struct {
	Kind   GateKind  `json:"kind" yaml:"kind"`
	Params []float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// NewGate builds a gate, copying params.
func NewGate(kind GateKind, params ...float64) Gate {
	g := Gate{Kind: kind}
	if len(params) > 0 {
		g.Params = append([]float64(nil), params...)
	}
	return g
}

// Class is shorthand for g.Kind.Class().
func (g Gate) Class() Class {
	return g.Kind.Class()
}

// String renders the gate as mnemonic(p1,p2,...).
func (g Gate) String() string {
	if len(g.Params) == 0 {
		return string(g.Kind)
	}
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return fmt.Sprintf("%s(%s)", g.Kind, strings.Join(parts, ","))
}
