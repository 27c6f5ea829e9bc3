package qasm

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purestate/internal/ir"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"-0.25", -0.25},
		{"pi", math.Pi},
		{"pi/2", math.Pi / 2},
		{"3*pi/4", 3 * math.Pi / 4},
		{"2pi", 2 * math.Pi},
		{"-pi/2", -math.Pi / 2},
		{" PI ", math.Pi},
		{"1e-3", 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseParam(tt.in)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-15)
		})
	}

	for _, bad := range []string{"", "tau", "pi/0", "1+2"} {
		_, ok := ParseParam(bad)
		assert.False(t, ok, bad)
	}
}

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "0", FormatParam(0))
	assert.Equal(t, "pi", FormatParam(math.Pi))
	assert.Equal(t, "-pi/2", FormatParam(-math.Pi/2))
	assert.Equal(t, "3*pi/2", FormatParam(3*math.Pi/2))
	assert.Equal(t, "7*pi/4", FormatParam(7*math.Pi/4))
	assert.Equal(t, "0.3", FormatParam(0.3))
}

func TestParse(t *testing.T) {
	src := `// name: sample
OPENQASM 2.0;
include "qelib1.inc";
gate aswap a,b {
  cx a,b;
  cx b,a;
}
qreg a[1];
qreg b[2];
creg c[2];
h a[0]; x b[1];   // two statements
rz(pi/4) b[0];
cx a[0],b[1];
swap b[0], b[1];
barrier a, b[0];
measure b[1] -> c[1];
reset a[0];
`
	spec, err := Parse(src)
	require.NoError(t, err)
	require.NoError(t, spec.Check())

	assert.Equal(t, "sample", spec.Name)
	assert.Equal(t, 3, spec.NumQubits)
	assert.Equal(t, 2, spec.NumClbits)
	require.Len(t, spec.Instructions, 8)

	assert.Equal(t, ir.KindH, spec.Instructions[0].Gate.Kind)
	assert.Equal(t, []ir.Wire{2}, spec.Instructions[1].Wires)
	assert.InDelta(t, math.Pi/4, spec.Instructions[2].Gate.Params[0], 1e-15)
	assert.Equal(t, []ir.Wire{0, 2}, spec.Instructions[3].Wires)
	assert.Equal(t, ir.KindSwap, spec.Instructions[4].Gate.Kind)
	assert.Equal(t, []ir.Wire{0, 1}, spec.Instructions[5].Wires)
	assert.Equal(t, []int{1}, spec.Instructions[6].Clbits)
	assert.Equal(t, ir.KindReset, spec.Instructions[7].Gate.Kind)
}

func TestParseKeepsStatementsAfterGateDefinition(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"after closing brace", "qreg q[2];\ngate foo a {\n  x a;\n} h q[0]; swap q[0],q[1];\n"},
		{"one-line definition", "qreg q[2];\ngate foo a { x a; } h q[0]; swap q[0],q[1];\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.src)
			require.NoError(t, err)
			require.Len(t, spec.Instructions, 2)
			assert.Equal(t, ir.KindH, spec.Instructions[0].Gate.Kind)
			assert.Equal(t, ir.KindSwap, spec.Instructions[1].Gate.Kind)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unknown gate", "qreg q[1];\nsx q[0];", 2, "unknown gate"},
		{"index range", "qreg q[2];\nh q[2];", 2, "out of range"},
		{"unknown register", "qreg q[1];\nh r[0];", 2, "unknown qreg"},
		{"param count", "qreg q[1];\nrx q[0];", 2, "parameter"},
		{"arity", "qreg q[2];\ncx q[0];", 2, "qubit(s)"},
		{"bad param", "qreg q[1];\nrz(tau) q[0];", 2, "bad parameter"},
		{"conditional", "qreg q[1];\ncreg c[1];\nif(c==1) x q[0];", 3, "unsupported"},
		{"no qreg", "OPENQASM 2.0;", 1, "no qreg"},
		{"bare register", "qreg q[2];\nh q;", 2, "needs an index"},
		{"duplicate qreg", "qreg q[1];\nqreg q[2];", 2, "declared twice"},
		{"open gate def", "qreg q[1];\ngate foo a {\nx a;", 3, "unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Msg, tt.msg)
		})
	}
}

func demo() *ir.CircuitSpec {
	spec := &ir.CircuitSpec{Name: "demo", NumQubits: 2, NumClbits: 1}
	spec.Append(ir.NewGate(ir.KindH), 0).
		Append(ir.NewGate(ir.KindU3, math.Pi/2, 0, math.Pi), 1).
		Append(ir.NewGate(ir.KindASwap), 1, 0).
		Append(ir.NewGate(ir.KindRZ, 0.25), 0).
		Append(ir.NewGate(ir.KindMeasure), 0)
	spec.Instructions[4].Clbits = []int{0}
	return spec
}

func TestFormatGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "format_demo", []byte(Format(demo())))
}

func TestFormatParseRoundTrip(t *testing.T) {
	want := demo()
	got, err := Parse(Format(want))
	require.NoError(t, err)

	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.NumQubits, got.NumQubits)
	assert.Equal(t, want.NumClbits, got.NumClbits)
	require.Len(t, got.Instructions, len(want.Instructions))
	for i := range want.Instructions {
		w, g := want.Instructions[i], got.Instructions[i]
		assert.Equal(t, w.Gate.Kind, g.Gate.Kind)
		assert.Equal(t, w.Wires, g.Wires)
		assert.Equal(t, w.Clbits, g.Clbits)
		require.Len(t, g.Gate.Params, len(w.Gate.Params))
		for j := range w.Gate.Params {
			assert.InDelta(t, w.Gate.Params[j], g.Gate.Params[j], 1e-12)
		}
	}
}

func TestFormatOmitsASwapDefinitionWhenUnused(t *testing.T) {
	spec := &ir.CircuitSpec{NumQubits: 1}
	spec.Append(ir.NewGate(ir.KindX), 0)
	out := Format(spec)
	assert.NotContains(t, out, "gate aswap")
	assert.NotContains(t, out, "creg")
	assert.NotContains(t, out, "// name")
}
