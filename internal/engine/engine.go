package engine

import (
	"github.com/rs/zerolog"

	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

type taskInput struct {
	Type string
	Args map[string]any
}

// Engine is the mutable state one Simulate call threads through. It is not
// safe for concurrent use; all scheduling decisions happen on the single
// goroutine driving the tick loop, with task goroutines only ever runnable
// one at a time via the activity package's handoff protocol.
type Engine struct {
	model         activity.Model
	activityTypes map[string]activity.ActivityFunc

	arena *Arena
	tasks map[TaskID]*activity.Task

	elapsedTime  int64
	events       []HistoryEntry
	currentFrame *TaskFrame
	schedule     *JobSchedule

	taskStartTimes      map[TaskID]int64
	taskDirectives      map[TaskID]plan.Directive
	taskInputs          map[TaskID]taskInput
	taskChildrenSpawned map[TaskID][]TaskID
	taskChildrenCalled  map[TaskID][]TaskID

	awaitingConditions []awaitingCondition
	awaitingTasks      map[TaskID]TaskID // child (callee) -> parent (caller)

	// pendingResume carries a completed child's result map to its caller's
	// next Advance call, since Handle.Call is a true suspension: the caller
	// is not resumed synchronously when its child finishes, only scheduled,
	// and Advance needs the actual value to hand back across the caller's
	// inbound channel when that resume finally happens.
	pendingResume map[TaskID]any

	spans []Span

	err *Error

	logger zerolog.Logger
}

type awaitingCondition struct {
	condition activity.Condition
	task      TaskID
}

func newEngine(model activity.Model, arena *Arena, logger zerolog.Logger) *Engine {
	return &Engine{
		model:               model,
		activityTypes:       model.ActivityTypes(),
		arena:               arena,
		tasks:               make(map[TaskID]*activity.Task),
		events:              nil,
		schedule:            NewJobSchedule(),
		taskStartTimes:      make(map[TaskID]int64),
		taskDirectives:      make(map[TaskID]plan.Directive),
		taskInputs:          make(map[TaskID]taskInput),
		taskChildrenSpawned: make(map[TaskID][]TaskID),
		taskChildrenCalled:  make(map[TaskID][]TaskID),
		awaitingTasks:       make(map[TaskID]TaskID),
		pendingResume:       make(map[TaskID]any),
		logger:              logger,
	}
}

func (e *Engine) fail(err *Error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Engine) makeTask(directiveType string, args map[string]any) (TaskID, *activity.Task, *Error) {
	fn, ok := e.activityTypes[directiveType]
	if !ok {
		return 0, nil, newError(ErrUnknownActivity, "%q", directiveType)
	}
	id := e.arena.mint()
	callbacks := activity.Callbacks{
		OnEmit: func(topic string, value any) {
			if err := e.currentFrame.Emit(eventgraph.UserTopic{Name: topic}, value); err != nil {
				e.fail(err)
			}
		},
		OnRead: func(topics []string) map[string]any {
			return e.handleRead(topics)
		},
		OnSpawn: func(activityType string, args map[string]any) any {
			childID, err := e.handleSpawn(activityType, args)
			if err != nil {
				e.fail(err)
				return nil
			}
			return childID
		},
	}
	task := activity.NewTask(fn, args, callbacks)
	e.tasks[id] = task
	return id, task, nil
}

func (e *Engine) handleRead(topics []string) map[string]any {
	graphTopics := make([]eventgraph.Topic, len(topics))
	for i, t := range topics {
		graphTopics[i] = eventgraph.UserTopic{Name: t}
	}
	entries := e.currentFrame.Read(graphTopics)

	out := make(map[string]any, len(topics))
	for _, entry := range entries {
		eventgraph.Walk(entry.Graph, func(ev eventgraph.Event) {
			if ut, ok := ev.Topic.(eventgraph.UserTopic); ok {
				out[ut.Name] = ev.Value
			}
		})
	}
	for _, t := range topics {
		if _, ok := out[t]; !ok {
			out[t] = e.model.GetAttribute(t)
		}
	}
	return out
}

func (e *Engine) handleSpawn(activityType string, args map[string]any) (TaskID, *Error) {
	id, task, err := e.makeTask(activityType, args)
	if err != nil {
		return 0, err
	}
	e.taskInputs[id] = taskInput{Type: activityType, Args: args}
	e.taskDirectives[id] = plan.Directive{Type: activityType, StartTime: e.elapsedTime, Args: args}
	if serr := e.spawnTask(id, task, false); serr != nil {
		return 0, serr
	}
	return id, nil
}

// Defer schedules a brand-new task of directiveType to begin at atTime,
// recording it as started by a top-level plan directive.
func (e *Engine) Defer(directiveType string, atTime int64, args map[string]any) (TaskID, *Error) {
	id, _, err := e.makeTask(directiveType, args)
	if err != nil {
		return 0, err
	}
	if serr := e.schedule.Schedule(atTime, id); serr != nil {
		return 0, serr
	}
	e.taskStartTimes[id] = atTime
	e.taskInputs[id] = taskInput{Type: directiveType, Args: args}
	e.taskDirectives[id] = plan.Directive{Type: directiveType, StartTime: atTime, Args: args}
	return id, nil
}

// spawnTask runs a freshly created task's very first step, immediately —
// this is what lets a chain of synchronous Call suspensions (parent calls
// child calls grandchild, ...) unwind before the batch that started it ever
// returns to the tick loop.
func (e *Engine) spawnTask(id TaskID, task *activity.Task, isCall bool) *Error {
	e.taskStartTimes[id] = e.elapsedTime
	parentFrame := e.currentFrame

	frame := NewTaskFrame(e.elapsedTime, id, e.events)
	if err := frame.Emit(eventgraph.SpawnTopic{}, id); err != nil {
		return err
	}

	_, graph, err := e.stepTask(id, task, frame, nil)
	if err != nil {
		return err
	}

	if parentFrame != nil && parentFrame.hasTask {
		if isCall {
			e.taskChildrenCalled[parentFrame.task] = append(e.taskChildrenCalled[parentFrame.task], id)
		} else {
			e.taskChildrenSpawned[parentFrame.task] = append(e.taskChildrenSpawned[parentFrame.task], id)
		}
	}
	if parentFrame != nil {
		parentFrame.Spawn(graph)
	}
	e.currentFrame = parentFrame
	return nil
}

// stepTask resumes task once, handling whichever true suspension it lands
// on, and returns the event graph this single Advance call produced.
func (e *Engine) stepTask(id TaskID, task *activity.Task, frame *TaskFrame, resumeValue any) (activity.Message, *eventgraph.EventGraph, *Error) {
	restore := e.currentFrame
	e.currentFrame = frame

	msg := task.Advance(resumeValue)
	if e.err != nil {
		e.currentFrame = restore
		return msg, nil, e.err
	}

	var resumingCaller *TaskID

	switch msg.Kind {
	case activity.KindDelay:
		if serr := e.schedule.Schedule(e.elapsedTime+msg.DelayTicks, id); serr != nil {
			e.currentFrame = restore
			return msg, nil, serr
		}
	case activity.KindAwaitCondition:
		e.awaitingConditions = append(e.awaitingConditions, awaitingCondition{condition: msg.Condition, task: id})
	case activity.KindCompleted:
		e.recordSpan(id)
		if parent, ok := e.awaitingTasks[id]; ok {
			if serr := e.schedule.Schedule(e.elapsedTime, parent); serr != nil {
				e.currentFrame = restore
				return msg, nil, serr
			}
			resumingCaller = &parent
			e.pendingResume[parent] = msg.Result
			if err := frame.Emit(eventgraph.FinishTopic{TaskID: id}, "FINISHED"); err != nil {
				e.currentFrame = restore
				return msg, nil, err
			}
			delete(e.awaitingTasks, id)
		}
	case activity.KindFatal:
		e.currentFrame = restore
		return msg, nil, newError(ErrActivityFailed, "%v: %v", id, msg.Err)
	case activity.KindCall:
		childID, childTask, merr := e.makeTask(msg.CallType, msg.CallArgs)
		if merr != nil {
			e.currentFrame = restore
			return msg, nil, merr
		}
		e.awaitingTasks[childID] = id
		e.taskInputs[childID] = taskInput{Type: msg.CallType, Args: msg.CallArgs}
		e.taskDirectives[childID] = plan.Directive{Type: msg.CallType, StartTime: e.elapsedTime, Args: msg.CallArgs}
		if serr := e.spawnTask(childID, childTask, true); serr != nil {
			e.currentFrame = restore
			return msg, nil, serr
		}
	default:
		e.currentFrame = restore
		return msg, nil, newError(ErrUnknownStatus, "%v", msg.Kind)
	}

	e.currentFrame = restore

	if resumingCaller == nil {
		return msg, frame.Collect(), nil
	}
	readAtom := eventgraph.Atom(eventgraph.Event{
		Topic:   eventgraph.ReadTopic{},
		Value:   []eventgraph.Topic{eventgraph.FinishTopic{TaskID: id}},
		Progeny: *resumingCaller,
	})
	return msg, eventgraph.Seq(frame.Collect(), readAtom), nil
}

func (e *Engine) recordSpan(id TaskID) {
	directive := e.taskDirectives[id]
	e.spans = append(e.spans, Span{
		Directive: directive,
		TaskID:    id,
		Start:     e.taskStartTimes[id],
		End:       e.elapsedTime,
	})
}
