// Package qasm reads and writes the OpenQASM 2.0 subset used by purestate.
//
// Supported: qreg/creg declarations (several registers are laid out in
// declaration order), every gate in ir.Catalogue, measure, reset, barrier,
// pi expressions in parameters, and gate definitions, which are skipped.
// Classical conditions (if) and opaque gates are rejected.
package qasm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/purestate/internal/ir"
)

// ParseError reports a problem at a source line (1-based).
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("qasm: line %d: %s", e.Line, e.Msg)
}

var (
	regRegex     = regexp.MustCompile(`^(qreg|creg)\s+([a-zA-Z_]\w*)\s*\[\s*(\d+)\s*\]$`)
	stmtRegex    = regexp.MustCompile(`^([a-zA-Z_]\w*)\s*(?:\(([^)]*)\))?\s*(.*)$`)
	operandRegex = regexp.MustCompile(`^([a-zA-Z_]\w*)\s*(?:\[\s*(\d+)\s*\])?$`)
	measureRegex = regexp.MustCompile(`^measure\s+(.+?)\s*->\s*(.+)$`)
	nameRegex    = regexp.MustCompile(`^//\s*name:\s*(.+)$`)
)

type register struct {
	offset int
	size   int
}

type parser struct {
	spec  *ir.CircuitSpec
	qregs map[string]register
	cregs map[string]register
	line  int
}

// Parse reads an OpenQASM 2.0 program into a circuit spec. A leading
// "// name: <name>" comment sets the circuit name.
func Parse(src string) (*ir.CircuitSpec, error) {
	p := &parser{
		spec:  &ir.CircuitSpec{},
		qregs: make(map[string]register),
		cregs: make(map[string]register),
	}

	inGateDef := false
	for i, raw := range strings.Split(src, "\n") {
		p.line = i + 1
		line := strings.TrimSpace(raw)

		if m := nameRegex.FindStringSubmatch(line); m != nil && p.spec.Name == "" {
			p.spec.Name = strings.TrimSpace(m[1])
			continue
		}
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		if inGateDef || strings.HasPrefix(line, "gate ") {
			end := strings.Index(line, "}")
			if end < 0 {
				inGateDef = true
				continue
			}
			inGateDef = false
			line = strings.TrimSpace(line[end+1:])
		}

		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := p.statement(stmt); err != nil {
				return nil, err
			}
		}
	}
	if inGateDef {
		return nil, p.errorf("unterminated gate definition")
	}
	if p.spec.NumQubits == 0 {
		return nil, p.errorf("no qreg declared")
	}
	return p.spec, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) statement(stmt string) error {
	switch {
	case strings.HasPrefix(stmt, "OPENQASM"), strings.HasPrefix(stmt, "include"):
		return nil
	case strings.HasPrefix(stmt, "if"), strings.HasPrefix(stmt, "opaque"):
		return p.errorf("unsupported statement %q", stmt)
	case strings.HasPrefix(stmt, "qreg"), strings.HasPrefix(stmt, "creg"):
		return p.register(stmt)
	case strings.HasPrefix(stmt, "measure"):
		return p.measure(stmt)
	}

	m := stmtRegex.FindStringSubmatch(stmt)
	if m == nil {
		return p.errorf("cannot parse %q", stmt)
	}
	kind, err := ir.ParseGateKind(m[1])
	if err != nil {
		return p.errorf("%v", err)
	}

	var params []float64
	if strings.TrimSpace(m[2]) != "" {
		for _, part := range strings.Split(m[2], ",") {
			v, ok := ParseParam(part)
			if !ok {
				return p.errorf("bad parameter %q", strings.TrimSpace(part))
			}
			params = append(params, v)
		}
	}

	var wires []ir.Wire
	for _, op := range strings.Split(m[3], ",") {
		ws, err := p.qubits(op, kind == ir.KindBarrier)
		if err != nil {
			return err
		}
		wires = append(wires, ws...)
	}

	info, _ := ir.LookupGate(kind)
	if info.Wires > 0 && len(wires) != info.Wires {
		return p.errorf("%s takes %d qubit(s), got %d", kind, info.Wires, len(wires))
	}
	if len(params) != info.Params {
		return p.errorf("%s takes %d parameter(s), got %d", kind, info.Params, len(params))
	}
	p.spec.Append(ir.NewGate(kind, params...), wires...)
	return nil
}

func (p *parser) register(stmt string) error {
	m := regRegex.FindStringSubmatch(stmt)
	if m == nil {
		return p.errorf("bad register declaration %q", stmt)
	}
	size, _ := strconv.Atoi(m[3])
	if size == 0 {
		return p.errorf("register %s has size 0", m[2])
	}
	if m[1] == "qreg" {
		if _, dup := p.qregs[m[2]]; dup {
			return p.errorf("qreg %s declared twice", m[2])
		}
		p.qregs[m[2]] = register{offset: p.spec.NumQubits, size: size}
		p.spec.NumQubits += size
		return nil
	}
	if _, dup := p.cregs[m[2]]; dup {
		return p.errorf("creg %s declared twice", m[2])
	}
	p.cregs[m[2]] = register{offset: p.spec.NumClbits, size: size}
	p.spec.NumClbits += size
	return nil
}

func (p *parser) measure(stmt string) error {
	m := measureRegex.FindStringSubmatch(stmt)
	if m == nil {
		return p.errorf("bad measure %q", stmt)
	}
	q, err := p.qubits(m[1], false)
	if err != nil {
		return err
	}
	c, err := p.operand(m[2], p.cregs, "creg")
	if err != nil {
		return err
	}
	p.spec.Append(ir.NewGate(ir.KindMeasure), q...)
	last := &p.spec.Instructions[len(p.spec.Instructions)-1]
	last.Clbits = []int{c}
	return nil
}

// qubits resolves an operand. A bare register name is only accepted where
// whole: true (barrier).
func (p *parser) qubits(op string, whole bool) ([]ir.Wire, error) {
	op = strings.TrimSpace(op)
	m := operandRegex.FindStringSubmatch(op)
	if m == nil {
		return nil, p.errorf("bad operand %q", op)
	}
	reg, ok := p.qregs[m[1]]
	if !ok {
		return nil, p.errorf("unknown qreg %q", m[1])
	}
	if m[2] == "" {
		if !whole {
			return nil, p.errorf("register operand %q needs an index", op)
		}
		out := make([]ir.Wire, reg.size)
		for i := range out {
			out[i] = ir.Wire(reg.offset + i)
		}
		return out, nil
	}
	w, err := p.operand(op, p.qregs, "qreg")
	if err != nil {
		return nil, err
	}
	return []ir.Wire{ir.Wire(w)}, nil
}

func (p *parser) operand(op string, regs map[string]register, what string) (int, error) {
	op = strings.TrimSpace(op)
	m := operandRegex.FindStringSubmatch(op)
	if m == nil || m[2] == "" {
		return 0, p.errorf("bad %s operand %q", what, op)
	}
	reg, ok := regs[m[1]]
	if !ok {
		return 0, p.errorf("unknown %s %q", what, m[1])
	}
	idx, _ := strconv.Atoi(m[2])
	if idx >= reg.size {
		return 0, p.errorf("index %d out of range for %s %s[%d]", idx, what, m[1], reg.size)
	}
	return reg.offset + idx, nil
}
