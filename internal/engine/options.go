package engine

import "github.com/jpl-jengelke/aerie-go/internal/plan"

type simConfig struct {
	stopTime            *int64
	oldEvents           []HistoryEntry
	deletedTasks        map[TaskID]struct{}
	oldTaskDirectives   map[TaskID]plan.Directive
	oldTaskParentCalled map[TaskID]TaskID
	arena               *Arena
}

// SimulateOption configures a Simulate call. The zero-value configuration is
// a full, from-scratch run with no retained history — exactly what a plain
// simulation wants. Package incremental supplies the rest to replay only a
// residual set of directives against retained history.
type SimulateOption func(*simConfig)

// WithStopTime halts the run before processing any batch scheduled at or
// after t, leaving the remainder of the schedule (and any unconsumed
// retained history) untouched. Used by the incremental engine's nested
// mid-tick resimulation, which must not advance past the tick that
// triggered it.
func WithStopTime(t int64) SimulateOption {
	return func(c *simConfig) { c.stopTime = &t }
}

// WithOldEvents seeds retained history to be merged back in as the run
// proceeds, time-ordered ahead of whatever the replayed tasks themselves
// produce at each tick.
func WithOldEvents(events []HistoryEntry) SimulateOption {
	return func(c *simConfig) { c.oldEvents = events }
}

// WithDeletedTasks marks task identities whose reads should never be
// considered stale-inducing (they no longer exist in the new plan at all,
// so there is nothing to restale) and whose retained events have already
// been excised from history.
func WithDeletedTasks(deleted map[TaskID]struct{}) SimulateOption {
	return func(c *simConfig) { c.deletedTasks = deleted }
}

// WithOldTaskDirectives supplies the directive a given retained TaskID was
// started from, used to look up what to resimulate when that task's read is
// found stale.
func WithOldTaskDirectives(directives map[TaskID]plan.Directive) SimulateOption {
	return func(c *simConfig) { c.oldTaskDirectives = directives }
}

// WithOldTaskParentCalled supplies the Call-parent of a retained TaskID, so
// a stale read inside a called child escalates to restaling its caller
// instead of being resimulated as if it were independently spawned.
func WithOldTaskParentCalled(parents map[TaskID]TaskID) SimulateOption {
	return func(c *simConfig) { c.oldTaskParentCalled = parents }
}

// WithArena shares a TaskID arena across nested or successive Simulate
// calls that must never mint colliding identities.
func WithArena(a *Arena) SimulateOption {
	return func(c *simConfig) { c.arena = a }
}
