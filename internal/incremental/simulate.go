package incremental

import (
	"sort"

	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
	"github.com/jpl-jengelke/aerie-go/internal/simtrace"
)

// Simulate produces the same (spans, events) a full engine.Simulate(model,
// newPlan) would, but replays only the directives whose tasks were deleted
// or found stale against payload, the Payload of a prior run of oldPlan.
//
// It never falls back to a full simulation: the deletion and staleness
// analysis below is exact, and the residual directive set handed to
// engine.Simulate is always a subset of newPlan's added-or-stale tasks.
func Simulate(model activity.Model, newPlan, oldPlan plan.Plan, payload *engine.Payload, opts ...Option) ([]engine.Span, []engine.HistoryEntry, error) {
	o := buildOptions(opts)

	diff := plan.Diff(oldPlan, newPlan)

	deleted := deletionClosure(diff.Removed, payload)
	for id := range deleted {
		simtrace.SafeRecord(o.sink, simtrace.Decision{Kind: simtrace.TaskDeleted, TaskID: simtrace.TaskIDString(id), Reason: "removed-or-descendant"})
	}

	stale := findStaleTasks(payload, deleted)
	for id := range stale {
		simtrace.SafeRecord(o.sink, simtrace.Decision{Kind: simtrace.TaskStale, TaskID: simtrace.TaskIDString(id), Reason: "reads-invalidated-topic-or-calls-stale-child"})
	}

	var directivesToSimulate plan.Plan
	directivesToSimulate = append(directivesToSimulate, diff.Added...)
	for id := range stale {
		if _, isCalled := payload.TaskParentCalled[id]; isCalled {
			// The parent that called id is already in stale (escalated by
			// findStaleTasks) and re-Calls it as part of replaying the
			// parent's directive; giving id its own top-level directive too
			// would run it a second time.
			continue
		}
		if d, ok := payload.TaskDirectives[id]; ok {
			directivesToSimulate = append(directivesToSimulate, d)
			simtrace.SafeRecord(o.sink, simtrace.Decision{Kind: simtrace.TaskReplayed, TaskID: simtrace.TaskIDString(id), Reason: "stale"})
		}
	}
	for id := range payload.TaskDirectives {
		if _, isDeleted := deleted[id]; isDeleted {
			continue
		}
		if _, isStale := stale[id]; isStale {
			continue
		}
		simtrace.SafeRecord(o.sink, simtrace.Decision{Kind: simtrace.TaskRetained, TaskID: simtrace.TaskIDString(id)})
	}

	residualEvents := residualHistory(payload.Events, deleted, stale)

	arena := engine.NewArena(payload.NextTaskID)
	newSpans, newEvents, newPayload, err := engine.Simulate(model, directivesToSimulate,
		engine.WithOldEvents(residualEvents),
		engine.WithDeletedTasks(deleted),
		engine.WithOldTaskDirectives(payload.TaskDirectives),
		engine.WithOldTaskParentCalled(payload.TaskParentCalled),
		engine.WithArena(arena),
	)
	if err != nil {
		return nil, nil, err
	}

	// The nested baseline run may have discovered further staleness of its
	// own (step 6 of the baseline loop); engine.Simulate mutated the deleted
	// map we passed it in place, but fold newPayload.DeletedTasks in
	// explicitly rather than rely on that aliasing.
	for id := range newPayload.DeletedTasks {
		deleted[id] = struct{}{}
	}

	spans := reconcileSpans(payload.Spans, newSpans, deleted, stale)
	events := collapseSimultaneous(newEvents)

	return spans, events, nil
}

// findStaleTasks runs the staleness fixpoint: repeatedly linearize every
// retained READ-or-deleted/stale event and walk it for reads whose topics
// were invalidated, escalating a stale Call-child to its caller, until no new
// stale task appears.
func findStaleTasks(payload *engine.Payload, deleted map[engine.TaskID]struct{}) map[engine.TaskID]struct{} {
	stale := map[engine.TaskID]struct{}{}

	for {
		linearized := eventgraph.Empty()
		for _, entry := range payload.Events {
			filtered := eventgraph.FilterFunc(entry.Graph, func(e eventgraph.Event) bool {
				if _, isRead := e.Topic.(eventgraph.ReadTopic); isRead {
					return true
				}
				progeny, _ := e.Progeny.(engine.TaskID)
				if _, ok := deleted[progeny]; ok {
					return true
				}
				_, ok := stale[progeny]
				return ok
			})
			linearized = eventgraph.Seq(linearized, filtered)
		}

		staleReads := getStaleReads(linearized, map[eventgraph.Topic]struct{}{})

		newStale := map[engine.TaskID]struct{}{}
		for _, r := range staleReads {
			progeny, _ := r.Progeny.(engine.TaskID)
			if _, ok := deleted[progeny]; ok {
				continue
			}
			if _, ok := stale[progeny]; ok {
				continue
			}
			newStale[progeny] = struct{}{}
		}
		if len(newStale) == 0 {
			return stale
		}

		worklist := make([]engine.TaskID, 0, len(newStale))
		for id := range newStale {
			worklist = append(worklist, id)
		}
		for len(worklist) > 0 {
			reader := worklist[0]
			worklist = worklist[1:]
			if parent, ok := payload.TaskParentCalled[reader]; ok {
				if _, already := newStale[parent]; !already {
					newStale[parent] = struct{}{}
					worklist = append(worklist, parent)
				}
			}
		}

		for id := range newStale {
			stale[id] = struct{}{}
		}
	}
}

// residualHistory drops every atom produced or observed by a deleted or
// stale task from retained history, then drops any entry that filters down
// to Empty entirely.
func residualHistory(events []engine.HistoryEntry, deleted, stale map[engine.TaskID]struct{}) []engine.HistoryEntry {
	out := make([]engine.HistoryEntry, 0, len(events))
	for _, entry := range events {
		filtered := eventgraph.FilterFunc(entry.Graph, func(e eventgraph.Event) bool {
			progeny, _ := e.Progeny.(engine.TaskID)
			if _, ok := deleted[progeny]; ok {
				return false
			}
			_, ok := stale[progeny]
			return !ok
		})
		if !eventgraph.IsEmpty(filtered) {
			out = append(out, engine.HistoryEntry{Time: entry.Time, Graph: filtered})
		}
	}
	return out
}

// reconcileSpans drops every retained span whose task was deleted or found
// stale (it is superseded by a span among newSpans), then merges and
// re-sorts. Carrying TaskID directly on Span (unlike the reference
// implementation's directive-keyed span tuples) makes this a plain set
// membership test instead of a directive-equality search.
func reconcileSpans(oldSpans, newSpans []engine.Span, deleted, stale map[engine.TaskID]struct{}) []engine.Span {
	out := make([]engine.Span, 0, len(oldSpans)+len(newSpans))
	for _, s := range oldSpans {
		if _, ok := deleted[s.TaskID]; ok {
			continue
		}
		if _, ok := stale[s.TaskID]; ok {
			continue
		}
		out = append(out, s)
	}
	out = append(out, newSpans...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// collapseSimultaneous merges history entries that share a time, the way the
// baseline loop does mid-run — needed here because retained events spliced
// back in at the end of a run are appended verbatim, without merging against
// an existing same-time entry.
func collapseSimultaneous(events []engine.HistoryEntry) []engine.HistoryEntry {
	sorted := make([]engine.HistoryEntry, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	out := make([]engine.HistoryEntry, 0, len(sorted))
	for _, e := range sorted {
		if n := len(out); n > 0 && out[n-1].Time == e.Time {
			out[n-1].Graph = eventgraph.Seq(out[n-1].Graph, e.Graph)
		} else {
			out = append(out, e)
		}
	}
	return out
}
