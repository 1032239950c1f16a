package engine

import (
	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// Span is the completed lifetime of one task: which directive started it,
// and the simulation time window it occupied.
type Span struct {
	Directive plan.Directive
	TaskID    TaskID
	Start     int64
	End       int64
}

// Payload is everything a Simulate run produces beyond the public spans and
// events, needed to drive a later incremental rerun: the bookkeeping tables
// the reference implementation keeps on the engine itself, carried forward
// as plain data once the run that built them is done.
type Payload struct {
	Events              []HistoryEntry
	Spans               []Span
	PlanDirectiveToTask map[plan.Key]TaskID
	TaskDirectives      map[TaskID]plan.Directive
	TaskChildrenCalled  map[TaskID][]TaskID
	TaskChildrenSpawned map[TaskID][]TaskID
	TaskParentCalled    map[TaskID]TaskID
	TaskParentSpawned   map[TaskID]TaskID
	DeletedTasks        map[TaskID]struct{}
	NextTaskID          TaskID

	// The remaining fields exist only so a nested, same-package recursive
	// Simulate call can splice a sub-run's live task machinery back into
	// its parent engine; package incremental never sees them.
	schedule           *JobSchedule
	tasks              map[TaskID]*activity.Task
	taskStartTimes     map[TaskID]int64
	taskInputs         map[TaskID]taskInput
	awaitingConditions []awaitingCondition
	awaitingTasks      map[TaskID]TaskID
	pendingResume      map[TaskID]any
}

func buildParentIndex(childrenByParent map[TaskID][]TaskID) map[TaskID]TaskID {
	out := make(map[TaskID]TaskID)
	for parent, children := range childrenByParent {
		for _, child := range children {
			out[child] = parent
		}
	}
	return out
}
