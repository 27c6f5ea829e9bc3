// Package store provides SQLite-backed durable storage for optimizer runs.
//
// The store is an append-only decision log with:
//   - Runs: one record per pass over a circuit, successful or not
//   - Decisions: one record per SWAP visited during a successful run
//
// # Patterns
//
// Logical ordering: runs are ordered by a seq INTEGER assigned on insert and
// decisions by their position in the walk. Timestamps are never stored, so
// two identical runs differ only in their run ID.
//
// Deterministic reads: every query ends in ORDER BY seq ASC, id ASC COLLATE
// BINARY.
//
// Content addressing: input and output circuits are recorded by
// ir.CircuitHash and decision IDs come from ir.DecisionHash.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
