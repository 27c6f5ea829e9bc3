package ir

// Version constants for the IR schema and the optimizer.
const (
	// IRVersion is the circuit IR schema version.
	IRVersion = "1"

	// PassVersion is the purestate optimizer version recorded with each run.
	PassVersion = "0.1.0"
)
