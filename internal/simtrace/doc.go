// Package simtrace records the logical decisions an incremental re-simulation
// makes about each task in the old payload: deleted, stale (and replayed), or
// retained untouched. The trace is canonicalized and hashed the same way the
// teacher's execution trace is, so two incremental runs over equivalent plan
// diffs produce byte-identical trace encodings regardless of map iteration
// order or goroutine scheduling.
package simtrace
