// Package incremental implements the incremental re-simulation driver: given
// a previous run's engine.Payload and a new plan, it computes which prior
// tasks are deleted (dropped from the plan, transitively through call/spawn)
// and which are stale (depended on an event that was deleted or newly
// produced), then replays only those against retained history.
//
// The result is required to be bit-for-bit equivalent, on the observable
// spans and events, to a full engine.Simulate of the new plan from scratch —
// incremental re-simulation never trades correctness for speed.
package incremental
