package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/purestate/internal/ir"
)

// marshalOptions converts RunOptions to canonical JSON TEXT for storage.
func marshalOptions(o RunOptions) (string, error) {
	wires := make([]any, len(o.UnknownInputs))
	for i, w := range o.UnknownInputs {
		wires[i] = w
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"track_reset":    o.TrackReset,
		"unknown_inputs": wires,
	})
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

func unmarshalOptions(s string) (RunOptions, error) {
	var o RunOptions
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		return RunOptions{}, fmt.Errorf("unmarshal options: %w", err)
	}
	if o.UnknownInputs == nil {
		o.UnknownInputs = []int{}
	}
	return o, nil
}

// marshalStates stores the two operand states as a canonical JSON array.
func marshalStates(states [2]string) (string, error) {
	data, err := ir.MarshalCanonical([]any{states[0], states[1]})
	if err != nil {
		return "", fmt.Errorf("marshal states: %w", err)
	}
	return string(data), nil
}

func unmarshalStates(s string) ([2]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return [2]string{}, fmt.Errorf("unmarshal states: %w", err)
	}
	if len(out) != 2 {
		return [2]string{}, fmt.Errorf("unmarshal states: want 2 entries, got %d", len(out))
	}
	return [2]string{out[0], out[1]}, nil
}
