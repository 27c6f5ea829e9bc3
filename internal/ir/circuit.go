package ir

import "fmt"

// Wire identifies one qubit line by its dense index.
type Wire int

// Instruction is one gate application in program order.
type Instruction struct {
	Gate  Gate   `json:"gate" yaml:"gate"`
	Wires []Wire `json:"wires" yaml:"wires"`

	// Clbits holds classical targets for measure; empty otherwise.
	Clbits []int `json:"clbits,omitempty" yaml:"clbits,omitempty"`
}

// CircuitSpec is a circuit as a flat, ordered instruction list. It is the
// exchange format between the readers (qasm, compiler), the graph (dag)
// and the simulator (sim).
type CircuitSpec struct {
	Name         string        `json:"name"`
	NumQubits    int           `json:"num_qubits"`
	NumClbits    int           `json:"num_clbits,omitempty"`
	Instructions []Instruction `json:"instructions"`
}

// Append adds an instruction and returns the circuit for chaining.
func (c *CircuitSpec) Append(g Gate, wires ...Wire) *CircuitSpec {
	c.Instructions = append(c.Instructions, Instruction{
		Gate:  g,
		Wires: append([]Wire(nil), wires...),
	})
	return c
}

// Check reports the first structural problem: unknown gates, wrong arity,
// or wires outside the register. compiler.Validate reports all of them.
func (c *CircuitSpec) Check() error {
	if c.NumQubits <= 0 {
		return fmt.Errorf("circuit %q: no qubits", c.Name)
	}
	for i, inst := range c.Instructions {
		info, ok := LookupGate(inst.Gate.Kind)
		if !ok {
			return fmt.Errorf("instruction %d: unknown gate %q", i, inst.Gate.Kind)
		}
		if info.Wires > 0 && len(inst.Wires) != info.Wires {
			return fmt.Errorf("instruction %d: %s takes %d wire(s), got %d", i, inst.Gate.Kind, info.Wires, len(inst.Wires))
		}
		if len(inst.Gate.Params) != info.Params {
			return fmt.Errorf("instruction %d: %s takes %d parameter(s), got %d", i, inst.Gate.Kind, info.Params, len(inst.Gate.Params))
		}
		seen := make(map[Wire]bool, len(inst.Wires))
		for _, w := range inst.Wires {
			if w < 0 || int(w) >= c.NumQubits {
				return fmt.Errorf("instruction %d: wire %d out of range [0,%d)", i, w, c.NumQubits)
			}
			if seen[w] {
				return fmt.Errorf("instruction %d: wire %d used twice", i, w)
			}
			seen[w] = true
		}
	}
	return nil
}

// Unitary reports whether every instruction is unitary.
func (c *CircuitSpec) Unitary() bool {
	for _, inst := range c.Instructions {
		info, ok := LookupGate(inst.Gate.Kind)
		if !ok || !info.Unitary {
			return false
		}
	}
	return true
}
