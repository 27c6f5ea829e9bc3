package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/qasm"
)

// CompileCircuit parses a CUE value into a CircuitSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the circuit struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`circuit: bell: { qubits: 2, ops: [...] }`)
//	spec, err := CompileCircuit(v.LookupPath(cue.ParsePath("circuit.bell")))
//
// Gate names are not checked here; Validate reports unknown gates, arity
// and range problems all at once.
func CompileCircuit(v cue.Value) (*ir.CircuitSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.CircuitSpec{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	qubitsVal := v.LookupPath(cue.ParsePath("qubits"))
	if !qubitsVal.Exists() {
		return nil, &CompileError{
			Field:   "qubits",
			Message: "qubits is required",
			Pos:     v.Pos(),
		}
	}
	n, err := qubitsVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.NumQubits = int(n)

	if clbitsVal := v.LookupPath(cue.ParsePath("clbits")); clbitsVal.Exists() {
		m, err := clbitsVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.NumClbits = int(m)
	}

	opsVal := v.LookupPath(cue.ParsePath("ops"))
	if !opsVal.Exists() {
		return spec, nil
	}
	iter, err := opsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		inst, err := parseOp(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		spec.Instructions = append(spec.Instructions, inst)
	}

	return spec, nil
}

// parseOp parses one {gate, wires, params?, clbits?} entry.
func parseOp(v cue.Value, idx int) (ir.Instruction, error) {
	var inst ir.Instruction
	field := fmt.Sprintf("ops[%d]", idx)

	gateVal := v.LookupPath(cue.ParsePath("gate"))
	if !gateVal.Exists() {
		return inst, &CompileError{Field: field + ".gate", Message: "gate is required", Pos: v.Pos()}
	}
	name, err := gateVal.String()
	if err != nil {
		return inst, formatCUEError(err)
	}
	// Unknown names pass through for Validate (E102).
	kind, kerr := ir.ParseGateKind(name)
	if kerr != nil {
		kind = ir.GateKind(name)
	}

	wires, err := intList(v.LookupPath(cue.ParsePath("wires")), field+".wires")
	if err != nil {
		return inst, err
	}
	for _, w := range wires {
		inst.Wires = append(inst.Wires, ir.Wire(w))
	}

	var params []float64
	if pv := v.LookupPath(cue.ParsePath("params")); pv.Exists() {
		piter, err := pv.List()
		if err != nil {
			return inst, formatCUEError(err)
		}
		for j := 0; piter.Next(); j++ {
			p, err := parseParam(piter.Value(), fmt.Sprintf("%s.params[%d]", field, j))
			if err != nil {
				return inst, err
			}
			params = append(params, p)
		}
	}
	inst.Gate = ir.NewGate(kind, params...)

	if cv := v.LookupPath(cue.ParsePath("clbits")); cv.Exists() {
		inst.Clbits, err = intList(cv, field+".clbits")
		if err != nil {
			return inst, err
		}
	}
	return inst, nil
}

// parseParam accepts a number or a pi expression string such as "pi/2".
func parseParam(v cue.Value, field string) (float64, error) {
	if v.IncompleteKind() == cue.StringKind {
		s, err := v.String()
		if err != nil {
			return 0, formatCUEError(err)
		}
		p, ok := qasm.ParseParam(s)
		if !ok {
			return 0, &CompileError{Field: field, Message: fmt.Sprintf("bad angle expression %q", s), Pos: v.Pos()}
		}
		return p, nil
	}
	p, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return p, nil
}

func intList(v cue.Value, field string) ([]int, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: field, Message: "wires is required", Pos: v.Pos()}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// CompileCircuits compiles every field of the top-level circuit struct, in
// declaration order. A value without a circuit struct yields no circuits.
func CompileCircuits(v cue.Value) ([]*ir.CircuitSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	root := v.LookupPath(cue.ParsePath("circuit"))
	if !root.Exists() {
		return nil, nil
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var specs []*ir.CircuitSpec
	for iter.Next() {
		spec, err := CompileCircuit(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("circuit %s: %w", iter.Selector(), err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
