// Package harness provides conformance testing for the purestate optimizer.
//
// The harness parses a circuit, runs the pass over it, records the run in a
// fresh in-memory decision log and evaluates assertions against the decision
// trace read back from that log.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	circuit: |
//	  OPENQASM 2.0;
//	  qreg q[2];
//	  h q[0];
//	  swap q[0],q[1];
//	unknown_inputs: [1]
//	assertions:
//	  - type: decision
//	    index: 0
//	    outcome: replaced
//	    rewrite: aswap
//	  - type: gate_count
//	    gate: swap
//	    count: 0
//
// circuit_file may replace circuit; it is resolved relative to the scenario
// file and may be QASM (.qasm) or a CUE file holding one circuit (.cue).
//
// # Assertion Types
//
//   - decision: the decision at index matches every field given
//   - decision_count: exactly count decisions (optionally of one outcome)
//   - gate_count: the output circuit holds exactly count gates of a kind
//   - equivalent: the output simulates to the same state as the input
//   - error: the pass failed, optionally with a given error code
//
// # Deterministic Testing
//
// Run IDs come from testutil.FixedRunIDGenerator seeded with the scenario
// name, and decision IDs are content hashes, so a scenario always produces
// a byte-identical trace for golden comparison.
package harness
