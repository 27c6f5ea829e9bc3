package compiler

import (
	"math"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purestate/internal/ir"
)

func compile(t *testing.T, src, path string) (*ir.CircuitSpec, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileCircuit(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileCircuitBasic(t *testing.T) {
	spec, err := compile(t, `
		circuit: plus_swap: {
			qubits: 2
			clbits: 1
			ops: [
				{gate: "h", wires: [0]},
				{gate: "rz", wires: [1], params: ["pi/4"]},
				{gate: "u3", wires: [1], params: [0.5, 1, "-pi"]},
				{gate: "SWAP", wires: [0, 1]},
				{gate: "measure", wires: [1], clbits: [0]},
			]
		}
	`, "circuit.plus_swap")
	require.NoError(t, err)

	assert.Equal(t, "plus_swap", spec.Name)
	assert.Equal(t, 2, spec.NumQubits)
	assert.Equal(t, 1, spec.NumClbits)
	require.Len(t, spec.Instructions, 5)

	assert.Equal(t, ir.KindH, spec.Instructions[0].Gate.Kind)
	assert.InDelta(t, math.Pi/4, spec.Instructions[1].Gate.Params[0], 1e-15)
	assert.Equal(t, []float64{0.5, 1, -math.Pi}, spec.Instructions[2].Gate.Params)
	assert.Equal(t, ir.KindSwap, spec.Instructions[3].Gate.Kind)
	assert.Equal(t, []ir.Wire{0, 1}, spec.Instructions[3].Wires)
	assert.Equal(t, []int{0}, spec.Instructions[4].Clbits)

	assert.Empty(t, Validate(spec))
	assert.NoError(t, spec.Check())
}

func TestCompileCircuitMissingQubits(t *testing.T) {
	_, err := compile(t, `
		circuit: bad: {
			ops: []
		}
	`, "circuit.bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qubits")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileCircuitMissingWires(t *testing.T) {
	_, err := compile(t, `
		circuit: bad: {
			qubits: 1
			ops: [{gate: "x"}]
		}
	`, "circuit.bad")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ops[0].wires", ce.Field)
}

func TestCompileCircuitBadAngle(t *testing.T) {
	_, err := compile(t, `
		circuit: bad: {
			qubits: 1
			ops: [{gate: "rx", wires: [0], params: ["tau"]}]
		}
	`, "circuit.bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad angle expression")
}

func TestCompileCircuitKeepsUnknownGateForValidate(t *testing.T) {
	spec, err := compile(t, `
		circuit: odd: {
			qubits: 1
			ops: [{gate: "sx", wires: [0]}]
		}
	`, "circuit.odd")
	require.NoError(t, err)

	errs := Validate(spec)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownGate, errs[0].Code)
}

func TestCompileCircuitNoOps(t *testing.T) {
	spec, err := compile(t, `circuit: empty: qubits: 3`, "circuit.empty")
	require.NoError(t, err)
	assert.Equal(t, 3, spec.NumQubits)
	assert.Empty(t, spec.Instructions)
}

func TestValidateCollectsAll(t *testing.T) {
	spec := &ir.CircuitSpec{Name: "bad", NumQubits: 2}
	spec.Instructions = []ir.Instruction{
		{Gate: ir.NewGate(ir.KindCX), Wires: []ir.Wire{0}},
		{Gate: ir.NewGate(ir.KindX), Wires: []ir.Wire{5}},
		{Gate: ir.NewGate(ir.KindSwap), Wires: []ir.Wire{1, 1}},
		{Gate: ir.NewGate(ir.KindRY), Wires: []ir.Wire{0}},
		{Gate: ir.NewGate(ir.KindMeasure), Wires: []ir.Wire{0}, Clbits: []int{0}},
	}

	errs := Validate(spec)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Equal(t, []string{ErrWireCount, ErrWireOutOfRange, ErrDuplicateWire, ErrParamCount, ErrClbitOutOfRange}, codes)
}

func TestValidateNoQubits(t *testing.T) {
	errs := Validate(ir.CircuitSpec{Name: "empty"})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoQubits, errs[0].Code)
	assert.Contains(t, errs[0].Error(), "[E101]")
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate(42)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
}

func TestCompileErrorFormat(t *testing.T) {
	e := &CompileError{Field: "qubits", Message: "qubits is required"}
	assert.Equal(t, "qubits: qubits is required", e.Error())
}

func TestCompileCircuitsInOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		circuit: second: { qubits: 1, ops: [{gate: "x", wires: [0]}] }
		circuit: first: { qubits: 2 }
	`)
	require.NoError(t, v.Err())

	specs, err := CompileCircuits(v)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "second", specs[0].Name)
	assert.Equal(t, "first", specs[1].Name)
}

func TestCompileCircuitsNone(t *testing.T) {
	v := cuecontext.New().CompileString(`other: 1`)
	specs, err := CompileCircuits(v)
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestCompileCircuitsNamesFailure(t *testing.T) {
	v := cuecontext.New().CompileString(`circuit: broken: { ops: [] }`)
	_, err := CompileCircuits(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit broken")
}
