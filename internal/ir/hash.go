package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCircuit  = "purestate/circuit/v1"
	DomainDecision = "purestate/decision/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CircuitHash computes the content-addressed ID of a circuit.
// Two specs with the same name, register sizes and instruction list hash
// equal regardless of how they were produced.
func CircuitHash(c *CircuitSpec) (string, error) {
	if c == nil {
		return "", fmt.Errorf("CircuitHash: nil circuit")
	}
	canonical, err := MarshalCanonical(canonicalCircuit(c))
	if err != nil {
		return "", fmt.Errorf("CircuitHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCircuit, canonical), nil
}

// DecisionHash identifies one SWAP decision within a run.
func DecisionHash(runID string, seq int64, outcome, rewrite string) (string, error) {
	obj := map[string]any{
		"run_id":  runID,
		"seq":     seq,
		"outcome": outcome,
		"rewrite": rewrite,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DecisionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDecision, canonical), nil
}

// MustCircuitHash is like CircuitHash but panics on error.
// Use only in tests or when the circuit is known to be valid.
func MustCircuitHash(c *CircuitSpec) string {
	h, err := CircuitHash(c)
	if err != nil {
		panic(err)
	}
	return h
}
