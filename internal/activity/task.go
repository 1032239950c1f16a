package activity

import "fmt"

// Callbacks binds a Task to its engine for the three transparent operations.
// The engine sets these when it constructs a Task; package activity never
// imports package engine, so these are the only hook the two share.
type Callbacks struct {
	// OnEmit records that Topic=Value happened, produced by this task.
	OnEmit func(topic string, value any)

	// OnRead records a read of topics and returns their current values.
	OnRead func(topics []string) map[string]any

	// OnSpawn creates a new task of activityType and returns its opaque
	// identity (concretely an engine.TaskID, boxed as any so this package
	// stays independent of the engine's identity type).
	OnSpawn func(activityType string, args map[string]any) any
}

// Task runs one ActivityFunc on its own goroutine.
type Task struct {
	fn        ActivityFunc
	args      map[string]any
	callbacks Callbacks

	outbound chan Message
	inbound  chan any

	started bool
	done    bool
}

// NewTask constructs a Task bound to fn. The task's goroutine is not started
// until the first call to Advance.
func NewTask(fn ActivityFunc, args map[string]any, callbacks Callbacks) *Task {
	return &Task{
		fn:        fn,
		args:      args,
		callbacks: callbacks,
		outbound:  make(chan Message),
		inbound:   make(chan any),
	}
}

// Advance starts the task (on the first call) or resumes it with resumeValue
// (on every later call), running the task's goroutine until it next sends a
// true-suspension message (or finishes), handling any transparent operations
// inline along the way. It is the caller's responsibility to never call
// Advance again after a KindCompleted or KindFatal message, and never call
// Advance concurrently with another call for the same Task.
func (t *Task) Advance(resumeValue any) Message {
	if t.done {
		panic("activity: Advance called on a finished task")
	}
	if !t.started {
		t.started = true
		go t.run()
	} else {
		t.inbound <- resumeValue
	}

	for {
		msg := <-t.outbound
		switch msg.Kind {
		case KindEmit:
			if t.callbacks.OnEmit != nil {
				t.callbacks.OnEmit(msg.EmitTopic, msg.EmitValue)
			}
			t.inbound <- nil
			continue
		case KindRead:
			var values map[string]any
			if t.callbacks.OnRead != nil {
				values = t.callbacks.OnRead(msg.ReadTopics)
			}
			t.inbound <- values
			continue
		case KindSpawn:
			var ref any
			if t.callbacks.OnSpawn != nil {
				ref = t.callbacks.OnSpawn(msg.SpawnType, msg.SpawnArgs)
			}
			t.inbound <- ref
			continue
		default:
			if msg.Kind == KindCompleted || msg.Kind == KindFatal {
				t.done = true
			}
			return msg
		}
	}
}

// run is the task's goroutine body. It recovers panics from the activity
// function so a programming error in one activity cannot take down the
// whole simulation process.
func (t *Task) run() {
	defer func() {
		if r := recover(); r != nil {
			t.outbound <- Message{Kind: KindFatal, Err: fmt.Errorf("activity panic: %v", r)}
		}
	}()

	result, err := t.fn(t.handle(), t.args)
	if err != nil {
		t.outbound <- Message{Kind: KindFatal, Err: err}
		return
	}
	t.outbound <- Message{Kind: KindCompleted, Result: result}
}

func (t *Task) handle() *Handle {
	return &Handle{task: t}
}
