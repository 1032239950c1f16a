package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// Simulate runs p against model from scratch (the zero-value configuration)
// or, with options supplied by package incremental, replays only a residual
// plan against retained history while reusing a shared TaskID arena.
//
// It returns the completed spans (sorted by start then end time), the
// filtered event history (READ/SPAWN/FINISH bookkeeping topics stripped
// out — callers only ever want to see what the model itself emitted), and
// the Payload needed to drive a later incremental rerun.
func Simulate(model activity.Model, p plan.Plan, opts ...SimulateOption) ([]Span, []HistoryEntry, *Payload, error) {
	cfg := &simConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.arena == nil {
		cfg.arena = NewArena(0)
	}
	if cfg.deletedTasks == nil {
		cfg.deletedTasks = map[TaskID]struct{}{}
	}

	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()

	e := newEngine(model, cfg.arena, logger)
	oldEvents := cfg.oldEvents

	for _, d := range p {
		if _, err := e.Defer(d.Type, d.StartTime, d.Args); err != nil {
			return nil, nil, nil, err
		}
	}

	for !e.schedule.IsEmpty() {
		resumeTime, _ := e.schedule.PeekNextTime()
		if cfg.stopTime != nil && resumeTime >= *cfg.stopTime {
			break
		}
		e.elapsedTime = resumeTime
		e.logger.Debug().Int64("time", resumeTime).Msg("tick")

		for len(oldEvents) > 0 && oldEvents[0].Time < resumeTime {
			e.events = append(e.events, oldEvents[0])
			oldEvents = oldEvents[1:]
		}

		batchGraph := eventgraph.Empty()
		for _, id := range e.schedule.GetNextBatch() {
			task := e.tasks[id]
			frame := NewTaskFrame(e.elapsedTime, id, e.events)
			resumeValue := e.pendingResume[id]
			delete(e.pendingResume, id)
			_, graph, err := e.stepTask(id, task, frame, resumeValue)
			if err != nil {
				return nil, nil, nil, err
			}
			batchGraph = eventgraph.Conc(batchGraph, graph)
		}

		newlyInvalidated := eventgraph.ToSet(batchGraph, func(ev eventgraph.Event) eventgraph.Topic { return ev.Topic })

		if len(oldEvents) > 0 && oldEvents[0].Time == resumeTime {
			batchGraph = eventgraph.Conc(batchGraph, oldEvents[0].Graph)
			oldEvents = oldEvents[1:]
		}
		if len(oldEvents) > 0 && oldEvents[0].Time == resumeTime {
			return nil, nil, nil, newError(ErrDuplicateResumeTime, "time %d", resumeTime)
		}

		if !eventgraph.IsEmpty(batchGraph) {
			if n := len(e.events); n > 0 && e.events[n-1].Time == e.elapsedTime {
				e.events[n-1].Graph = eventgraph.Seq(e.events[n-1].Graph, batchGraph)
			} else {
				e.events = append(e.events, HistoryEntry{Time: e.elapsedTime, Graph: batchGraph})
			}
		}

		newlyStaleReaders := map[TaskID]struct{}{}
		for _, entry := range oldEvents {
			filtered := eventgraph.FilterFunc(entry.Graph, func(ev eventgraph.Event) bool {
				if _, isRead := ev.Topic.(eventgraph.ReadTopic); !isRead {
					return false
				}
				progeny, _ := ev.Progeny.(TaskID)
				if _, deleted := cfg.deletedTasks[progeny]; deleted {
					return false
				}
				readTopics, _ := ev.Value.([]eventgraph.Topic)
				for _, t := range readTopics {
					if _, invalidated := newlyInvalidated[t]; invalidated {
						return true
					}
				}
				return false
			})
			progenies := eventgraph.ToSet(filtered, func(ev eventgraph.Event) TaskID {
				id, _ := ev.Progeny.(TaskID)
				return id
			})
			for id := range progenies {
				newlyStaleReaders[id] = struct{}{}
			}
		}

		if len(newlyStaleReaders) > 0 {
			worklist := make([]TaskID, 0, len(newlyStaleReaders))
			for id := range newlyStaleReaders {
				worklist = append(worklist, id)
			}
			for len(worklist) > 0 {
				reader := worklist[0]
				worklist = worklist[1:]
				if parent, ok := cfg.oldTaskParentCalled[reader]; ok {
					if _, already := newlyStaleReaders[parent]; !already {
						newlyStaleReaders[parent] = struct{}{}
						worklist = append(worklist, parent)
					}
				}
			}

			for id := range newlyStaleReaders {
				cfg.deletedTasks[id] = struct{}{}
			}

			filteredOldEvents := make([]HistoryEntry, 0, len(oldEvents))
			for _, entry := range oldEvents {
				kept := eventgraph.FilterFunc(entry.Graph, func(ev eventgraph.Event) bool {
					progeny, _ := ev.Progeny.(TaskID)
					_, stale := newlyStaleReaders[progeny]
					return !stale
				})
				if !eventgraph.IsEmpty(kept) {
					filteredOldEvents = append(filteredOldEvents, HistoryEntry{Time: entry.Time, Graph: kept})
				}
			}
			oldEvents = filteredOldEvents

			var directivesToSimulate plan.Plan
			for id := range newlyStaleReaders {
				if _, isCalled := cfg.oldTaskParentCalled[id]; isCalled {
					continue // the parent is already in newlyStaleReaders and carries the resimulation
				}
				if d, ok := cfg.oldTaskDirectives[id]; ok {
					directivesToSimulate = append(directivesToSimulate, d)
				}
			}

			_, _, subPayload, err := Simulate(model, directivesToSimulate,
				WithStopTime(e.elapsedTime),
				WithArena(cfg.arena),
			)
			if err != nil {
				return nil, nil, nil, err
			}

			for k, v := range subPayload.TaskChildrenCalled {
				e.taskChildrenCalled[k] = v
			}
			for k, v := range subPayload.TaskChildrenSpawned {
				e.taskChildrenSpawned[k] = v
			}

			subEngineSchedule := subPayload.schedule
			for subEngineSchedule != nil && !subEngineSchedule.IsEmpty() {
				t, _ := subEngineSchedule.PeekNextTime()
				for _, id := range subEngineSchedule.GetNextBatch() {
					if err := e.schedule.Schedule(t, id); err != nil {
						return nil, nil, nil, err
					}
					e.tasks[id] = subPayload.tasks[id]
				}
			}

			for k, v := range subPayload.taskStartTimes {
				e.taskStartTimes[k] = v
			}
			for k, v := range subPayload.TaskDirectives {
				e.taskDirectives[k] = v
			}
			for k, v := range subPayload.taskInputs {
				e.taskInputs[k] = v
			}
			e.awaitingConditions = append(e.awaitingConditions, subPayload.awaitingConditions...)
			for k, v := range subPayload.awaitingTasks {
				e.awaitingTasks[k] = v
			}
			for k, v := range subPayload.pendingResume {
				e.pendingResume[k] = v
			}
			e.spans = append(e.spans, subPayload.Spans...)
		}

		oldAwaitingConditions := e.awaitingConditions
		e.awaitingConditions = nil
		conditionReads := eventgraph.Empty()
		for i := len(oldAwaitingConditions) - 1; i >= 0; i-- {
			ac := oldAwaitingConditions[i]
			frame := NewTaskFrame(e.elapsedTime, ac.task, e.events)
			e.currentFrame = frame
			if ac.condition(frameReader{frame: frame, model: e.model}) {
				if err := e.schedule.Schedule(e.elapsedTime, ac.task); err != nil {
					return nil, nil, nil, err
				}
			} else {
				e.awaitingConditions = append(e.awaitingConditions, ac)
			}
			conditionReads = eventgraph.Conc(conditionReads, frame.Collect())
		}
		e.currentFrame = nil

		if !eventgraph.IsEmpty(conditionReads) {
			if n := len(e.events); n > 0 && e.events[n-1].Time == e.elapsedTime {
				e.events[n-1].Graph = eventgraph.Seq(e.events[n-1].Graph, conditionReads)
			} else {
				e.events = append(e.events, HistoryEntry{Time: e.elapsedTime, Graph: conditionReads})
			}
		}
	}

	e.events = append(e.events, oldEvents...)

	spans := sortSpans(e.spans)

	payload := &Payload{
		Events:              e.events,
		Spans:               spans,
		PlanDirectiveToTask: invertDirectives(e.taskDirectives),
		TaskDirectives:      e.taskDirectives,
		TaskChildrenCalled:  e.taskChildrenCalled,
		TaskChildrenSpawned: e.taskChildrenSpawned,
		TaskParentCalled:    buildParentIndex(e.taskChildrenCalled),
		TaskParentSpawned:   buildParentIndex(e.taskChildrenSpawned),
		DeletedTasks:        cfg.deletedTasks,
		NextTaskID:          cfg.arena.Peek(),

		schedule:           e.schedule,
		tasks:              e.tasks,
		taskStartTimes:     e.taskStartTimes,
		taskInputs:         e.taskInputs,
		awaitingConditions: e.awaitingConditions,
		awaitingTasks:      e.awaitingTasks,
		pendingResume:      e.pendingResume,
	}

	return spans, withoutSpecialEvents(e.events), payload, nil
}

func invertDirectives(taskDirectives map[TaskID]plan.Directive) map[plan.Key]TaskID {
	out := make(map[plan.Key]TaskID, len(taskDirectives))
	for id, d := range taskDirectives {
		out[plan.ComputeKey(d)] = id
	}
	return out
}

func withoutSpecialEvents(events []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(events))
	for _, entry := range events {
		filtered := eventgraph.FilterFunc(entry.Graph, func(ev eventgraph.Event) bool {
			switch ev.Topic.(type) {
			case eventgraph.ReadTopic, eventgraph.SpawnTopic, eventgraph.FinishTopic:
				return false
			default:
				return true
			}
		})
		if !eventgraph.IsEmpty(filtered) {
			out = append(out, HistoryEntry{Time: entry.Time, Graph: filtered})
		}
	}
	return out
}

func sortSpans(spans []Span) []Span {
	out := make([]Span, len(spans))
	copy(out, spans)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && spanLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func spanLess(a, b Span) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}
