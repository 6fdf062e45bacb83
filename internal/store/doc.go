// Package store provides durable storage for solve runs.
//
// The run log is an audit trail, not solver state: each record captures
// what was solved (content-addressed problem hash, meeting and
// constraint counts), how (which solver), and the outcome (solved or
// not, the assignment, search statistics). The solver core never touches
// the store; recording is an opt-in concern of the CLI.
//
// Storage is SQLite in WAL mode with a single writer connection,
// embedded schema, and PRAGMA user_version migrations.
package store
