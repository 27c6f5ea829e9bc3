package harness

import (
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/optimizer"
)

// TraceEvent is one SWAP decision as read back from the decision log.
type TraceEvent struct {
	Seq         int64     `json:"seq"`
	NodeID      int       `json:"node_id"`
	Wires       [2]int    `json:"wires"`
	Outcome     string    `json:"outcome"`
	Rewrite     string    `json:"rewrite"`
	Orientation string    `json:"orientation,omitempty"`
	Basis       string    `json:"basis,omitempty"`
	Replacement string    `json:"replacement,omitempty"`
	States      [2]string `json:"states"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// RunID is the ID the run was recorded under.
	RunID string `json:"run_id"`

	// Trace holds the decisions in walk order.
	Trace []TraceEvent `json:"trace"`

	// Stats counts the decisions by outcome.
	Stats optimizer.Stats `json:"stats"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// ErrorCode is set when the pass failed with a typed error.
	ErrorCode string `json:"error_code,omitempty"`

	// Input and Output are the circuits before and after the pass.
	// Output is nil when the pass failed.
	Input  *ir.CircuitSpec `json:"-"`
	Output *ir.CircuitSpec `json:"-"`

	// PassErr is the pass failure, if any.
	PassErr error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
