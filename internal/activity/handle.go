package activity

// Handle is the only way an ActivityFunc interacts with the simulation. It
// is only safe to use from the goroutine running that activity; passing a
// Handle to another goroutine, or retaining it after the activity returns,
// is a misuse.
type Handle struct {
	task *Task
}

// Emit records Topic=Value as produced by this task and returns immediately;
// the engine answers inline without ending the current step.
func (h *Handle) Emit(topic string, value any) {
	h.task.outbound <- Message{Kind: KindEmit, EmitTopic: topic, EmitValue: value}
	<-h.task.inbound
}

// Read records a read of topics and returns their current values. Like
// Emit, this is transparent: the calling task never actually suspends.
func (h *Handle) Read(topics ...string) map[string]any {
	h.task.outbound <- Message{Kind: KindRead, ReadTopics: topics}
	reply := <-h.task.inbound
	values, _ := reply.(map[string]any)
	return values
}

// Spawn starts a new, independent task running activityType and returns its
// opaque identity. The spawned task is not awaited; it runs concurrently
// with its parent from this point in the event graph onward.
func (h *Handle) Spawn(activityType string, args map[string]any) any {
	h.task.outbound <- Message{Kind: KindSpawn, SpawnType: activityType, SpawnArgs: args}
	reply := <-h.task.inbound
	return reply
}

// Delay suspends the task until ticks time units have elapsed.
func (h *Handle) Delay(ticks int64) {
	h.task.outbound <- Message{Kind: KindDelay, DelayTicks: ticks}
	<-h.task.inbound
}

// AwaitCondition suspends the task until cond evaluates true against the
// engine's current state. cond is evaluated by the engine, never by this
// task's own goroutine, since the task is dormant the whole time it awaits.
func (h *Handle) AwaitCondition(cond Condition) {
	h.task.outbound <- Message{Kind: KindAwaitCondition, Condition: cond}
	<-h.task.inbound
}

// Call starts activityType as a child task and suspends until that child
// completes, returning its result map. Unlike Spawn, the parent is blocked
// on the child's completion — this is a true suspension, since the child
// may itself take many ticks to finish.
func (h *Handle) Call(activityType string, args map[string]any) map[string]any {
	h.task.outbound <- Message{Kind: KindCall, CallType: activityType, CallArgs: args}
	reply := <-h.task.inbound
	result, _ := reply.(map[string]any)
	return result
}
