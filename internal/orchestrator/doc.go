// Package orchestrator drives reconciliation runs end to end.
//
// A run is a single pass with no retries:
//
//	observe -> detect inactive -> archive -> partition -> moves -> renames
//
// Every run re-reads remote state and the managed-category store, so admin
// edits and external drift are picked up without restarts. Runs for one
// guild are serialized behind a per-guild mutex; the hourly timer and a
// manually invoked command may race, and the lock plus idempotence (a
// correctly ordered guild plans zero mutations) make that harmless.
// Distinct guilds share nothing and reconcile concurrently.
//
// Failure semantics follow the error taxonomy: configuration errors abort
// a run before any mutation, a failed activity query skips that channel,
// and a failed move or rename halts the mutation sequence with the partial
// summary reported. Nothing rolls back; the next run converges from
// whatever state the store is in.
package orchestrator
