package qasm

import (
	"fmt"
	"strings"

	"github.com/roach88/purestate/internal/ir"
)

// ASwapDefinition is emitted ahead of any circuit that uses aswap.
const ASwapDefinition = "gate aswap a,b { cx a,b; cx b,a; }"

// Format writes spec as OpenQASM 2.0 over a single register q (and c for
// measurements).
func Format(spec *ir.CircuitSpec) string {
	var sb strings.Builder
	if spec.Name != "" {
		fmt.Fprintf(&sb, "// name: %s\n", spec.Name)
	}
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")

	for _, inst := range spec.Instructions {
		if inst.Gate.Kind == ir.KindASwap {
			sb.WriteString(ASwapDefinition + "\n")
			break
		}
	}

	fmt.Fprintf(&sb, "qreg q[%d];\n", spec.NumQubits)
	if spec.NumClbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", spec.NumClbits)
	}

	for _, inst := range spec.Instructions {
		writeInstruction(&sb, inst)
	}
	return sb.String()
}

func writeInstruction(sb *strings.Builder, inst ir.Instruction) {
	sb.WriteString(string(inst.Gate.Kind))
	if len(inst.Gate.Params) > 0 {
		parts := make([]string, len(inst.Gate.Params))
		for i, p := range inst.Gate.Params {
			parts[i] = FormatParam(p)
		}
		fmt.Fprintf(sb, "(%s)", strings.Join(parts, ","))
	}

	operands := make([]string, len(inst.Wires))
	for i, w := range inst.Wires {
		operands[i] = fmt.Sprintf("q[%d]", w)
	}
	fmt.Fprintf(sb, " %s", strings.Join(operands, ","))

	if inst.Gate.Kind == ir.KindMeasure && len(inst.Clbits) > 0 {
		fmt.Fprintf(sb, " -> c[%d]", inst.Clbits[0])
	}
	sb.WriteString(";\n")
}
