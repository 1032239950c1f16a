package simtrace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jpl-jengelke/aerie-go/internal/engine"
)

// DecisionTrace is the canonical, deterministic record of one incremental
// re-simulation's per-task decisions.
//
// Invariants:
//   - Must capture PlanDiffHash and an ordered list of decisions.
//   - Must contain logical decisions, not runtime-dependent details (no
//     timestamps, no goroutine/channel identifiers, no map iteration order).
//
// PlanDiffHash identifies the (oldPlan, newPlan) pair this trace belongs to;
// callers are expected to derive it from the plan diff rather than this
// package, which has no opinion on plan hashing.
type DecisionTrace struct {
	PlanDiffHash string
	Decisions    []Decision
}

// DecisionKind is the stable, canonical discriminator for Decision. These
// values are part of the trace's canonical bytes; do not rename.
type DecisionKind string

const (
	TaskDeleted  DecisionKind = "TaskDeleted"
	TaskStale    DecisionKind = "TaskStale"
	TaskReplayed DecisionKind = "TaskReplayed"
	TaskRetained DecisionKind = "TaskRetained"
)

// Decision is a single logical classification the engine makes about one
// task from the old payload while building the directive set to replay.
type Decision struct {
	Kind DecisionKind

	TaskID string

	// Reason is a stable, logical reason code, e.g. "removed-or-descendant",
	// "reads-invalidated-topic-or-calls-stale-child", "stale".
	Reason string

	// CauseTaskID names a related task: the deleted ancestor for a
	// TaskDeleted-by-closure decision, or the task whose directive changed
	// for a TaskStale decision triggered by a changed sibling.
	// incremental.Simulate leaves it empty.
	CauseTaskID string
}

// Validate checks basic invariants.
func (t *DecisionTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	for i, d := range t.Decisions {
		if d.Kind == "" {
			return fmt.Errorf("decisions[%d].kind is required", i)
		}
		if d.TaskID == "" {
			return fmt.Errorf("decisions[%d].taskId is required", i)
		}
	}
	return nil
}

// Canonicalize sorts the trace's decisions into a total order independent of
// the order tasks were visited in during the run.
func (t *DecisionTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Decisions, func(i, j int) bool {
		a, b := t.Decisions[i], t.Decisions[j]
		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		return a.CauseTaskID < b.CauseTaskID
	})
}

func kindOrder(k DecisionKind) int {
	switch k {
	case TaskDeleted:
		return 10
	case TaskStale:
		return 20
	case TaskReplayed:
		return 30
	case TaskRetained:
		return 40
	default:
		return 1000
	}
}

// CanonicalJSON renders the trace's canonical form. Canonicalize must have
// already been called; CanonicalJSON does not sort.
func (t *DecisionTrace) CanonicalJSON() ([]byte, error) {
	if t == nil {
		return nil, errors.New("trace is nil")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"planDiffHash":`)
	pb, _ := json.Marshal(t.PlanDiffHash)
	buf.Write(pb)
	buf.WriteString(`,"decisions":[`)
	for i, d := range t.Decisions {
		if i > 0 {
			buf.WriteByte(',')
		}
		db, err := d.canonicalJSON()
		if err != nil {
			return nil, fmt.Errorf("decisions[%d]: %w", i, err)
		}
		buf.Write(db)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func (d Decision) canonicalJSON() ([]byte, error) {
	if d.Kind == "" {
		return nil, errors.New("kind is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"kind":`)
	kb, _ := json.Marshal(string(d.Kind))
	buf.Write(kb)

	buf.WriteString(`,"taskId":`)
	tb, _ := json.Marshal(d.TaskID)
	buf.Write(tb)

	if d.Reason != "" {
		buf.WriteString(`,"reason":`)
		rb, _ := json.Marshal(d.Reason)
		buf.Write(rb)
	}
	if d.CauseTaskID != "" {
		buf.WriteString(`,"causeTaskId":`)
		cb, _ := json.Marshal(d.CauseTaskID)
		buf.Write(cb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TaskIDString adapts an engine.TaskID to the string form Decision carries,
// keeping this package free of a direct dependency on engine internals
// beyond the exported TaskID type.
func TaskIDString(id engine.TaskID) string { return id.String() }
