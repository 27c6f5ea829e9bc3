package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/optimizer"
)

// Scenario defines a conformance test scenario: one circuit, one pass
// configuration and the assertions its run must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuit is inline OpenQASM 2.0 source.
	Circuit string `yaml:"circuit,omitempty"`

	// CircuitFile is a path to a .qasm or .cue file, relative to the
	// scenario file. Exactly one of Circuit and CircuitFile is set.
	CircuitFile string `yaml:"circuit_file,omitempty"`

	// UnknownInputs lists wires whose initial preparation is not |0>.
	UnknownInputs []int `yaml:"unknown_inputs,omitempty"`

	// TrackReset makes reset restore knowledge of its wire.
	TrackReset bool `yaml:"track_reset,omitempty"`

	// Assertions validate the decision trace and the output circuit.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the outcome of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Index selects a decision (decision).
	Index int `yaml:"index,omitempty"`

	// Outcome, Rewrite, Orientation and Basis are matched against a
	// decision when non-empty (decision). Outcome also filters
	// decision_count.
	Outcome     string `yaml:"outcome,omitempty"`
	Rewrite     string `yaml:"rewrite,omitempty"`
	Orientation string `yaml:"orientation,omitempty"`
	Basis       string `yaml:"basis,omitempty"`

	// Gate is the gate mnemonic (gate_count).
	Gate string `yaml:"gate,omitempty"`

	// Count is the expected number (decision_count, gate_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected error code (error). Empty accepts any failure.
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertDecision      = "decision"
	AssertDecisionCount = "decision_count"
	AssertGateCount     = "gate_count"
	AssertEquivalent    = "equivalent"
	AssertError         = "error"
)

var outcomes = []string{
	string(optimizer.OutcomeRemoved),
	string(optimizer.OutcomeReplaced),
	string(optimizer.OutcomeUnchanged),
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative circuit_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.CircuitFile != "" && !filepath.IsAbs(scenario.CircuitFile) {
		scenario.CircuitFile = filepath.Join(filepath.Dir(path), scenario.CircuitFile)
	}
	if scenario.CircuitFile != "" {
		if _, err := os.Stat(scenario.CircuitFile); err != nil {
			return nil, fmt.Errorf("invalid scenario: circuit file not found: %s", scenario.CircuitFile)
		}
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field checking and
// validates it. circuit_file paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Circuit == "" && s.CircuitFile == "":
		return fmt.Errorf("one of circuit or circuit_file is required")
	case s.Circuit != "" && s.CircuitFile != "":
		return fmt.Errorf("circuit and circuit_file are mutually exclusive")
	}

	for i, w := range s.UnknownInputs {
		if w < 0 {
			return fmt.Errorf("unknown_inputs[%d]: wire must be non-negative", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Outcome != "" && !slices.Contains(outcomes, a.Outcome) {
		return fmt.Errorf("assertions[%d]: unknown outcome %q", index, a.Outcome)
	}

	switch a.Type {
	case AssertDecision:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for decision", index)
		}
		if a.Outcome == "" && a.Rewrite == "" && a.Orientation == "" && a.Basis == "" {
			return fmt.Errorf("assertions[%d]: decision needs at least one of outcome, rewrite, orientation, basis", index)
		}
	case AssertDecisionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for decision_count", index)
		}
	case AssertGateCount:
		if a.Gate == "" {
			return fmt.Errorf("assertions[%d]: gate is required for gate_count", index)
		}
		if _, err := ir.ParseGateKind(a.Gate); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for gate_count", index)
		}
	case AssertEquivalent, AssertError:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
