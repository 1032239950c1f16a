package activity

// ActivityFunc is the body of one activity type. It runs on its own
// goroutine and suspends only by calling methods on the supplied Handle.
//
// A normal return ends the task with a KindCompleted message carrying the
// returned map as its result. A non-nil error, or a panic recovered by the
// Task runner, ends the task with a KindFatal message.
type ActivityFunc func(h *Handle, args map[string]any) (map[string]any, error)

// Model is the activity table and attribute directory for one simulation. It
// mirrors the teacher's registration-by-name pattern: activities are looked
// up by the string Directive.Type rather than by Go type, so plans can be
// serialized as plain data.
type Model interface {
	// ActivityTypes returns every activity this model knows how to run,
	// keyed by the name a Directive.Type or a Spawn/Call argument uses to
	// reference it.
	ActivityTypes() map[string]ActivityFunc

	// AttributeNames lists the model's attribute topics. A condition's
	// Reader falls back to GetAttribute only for topics in this list.
	AttributeNames() []string

	// GetAttribute returns the model's current value for name. Reader
	// implementations consult this only for attributes no task has ever
	// written; once a task emits to a topic, the engine's recorded history
	// takes precedence.
	GetAttribute(name string) any
}

// Reader is the read-only view of simulation state an AwaitCondition
// predicate is evaluated against. The engine supplies a concrete
// implementation backed by the current task frame; the task that is
// awaiting is dormant while this runs, which is why Condition takes a
// Reader instead of going through the Handle.
type Reader interface {
	// Value returns the most recent value recorded for topic, and whether
	// any value has been recorded at all.
	Value(topic string) (any, bool)
}

// Condition is a predicate the engine evaluates directly, once per
// scheduling pass, against a fresh Reader — never inside the awaiting
// task's goroutine.
type Condition func(Reader) bool
