package store

import "github.com/google/uuid"

// RunStatus is the terminal state of a run.
type RunStatus string

const (
	StatusOK     RunStatus = "ok"
	StatusFailed RunStatus = "failed"
)

// RunOptions records the pass configuration a run used.
type RunOptions struct {
	UnknownInputs []int `json:"unknown_inputs"`
	TrackReset    bool  `json:"track_reset"`
}

// Run is one pass over one circuit.
type Run struct {
	ID          string     `json:"id"`
	Seq         int64      `json:"seq"`
	CircuitName string     `json:"circuit_name"`
	NumQubits   int        `json:"num_qubits"`
	InputHash   string     `json:"input_hash"`
	OutputHash  string     `json:"output_hash,omitempty"`
	Status      RunStatus  `json:"status"`
	ErrorCode   string     `json:"error_code,omitempty"`
	Error       string     `json:"error,omitempty"`
	Options     RunOptions `json:"options"`
	PassVersion string     `json:"pass_version"`
	IRVersion   string     `json:"ir_version"`
}

// DecisionRecord is the stored form of one SWAP decision.
type DecisionRecord struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Seq         int64     `json:"seq"`
	NodeID      int       `json:"node_id"`
	Wires       [2]int    `json:"wires"`
	Outcome     string    `json:"outcome"`
	Rewrite     string    `json:"rewrite"`
	Orientation string    `json:"orientation,omitempty"`
	Basis       string    `json:"basis,omitempty"`
	States      [2]string `json:"states"`
	Replacement string    `json:"replacement,omitempty"`
}

// RunIDGenerator produces run IDs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
