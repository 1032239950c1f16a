package engine

import "github.com/jpl-jengelke/aerie-go/internal/eventgraph"

// HistoryEntry is one slot of retained history: everything recorded at a
// given simulation time, as a single event graph.
type HistoryEntry struct {
	Time  int64
	Graph *eventgraph.EventGraph
}

type branch struct {
	base  *eventgraph.EventGraph
	graph *eventgraph.EventGraph
}

// TaskFrame accumulates one task's emits and reads during a single Advance
// call, and supports nesting a child's frame in when that child is spawned
// mid-step (Collect then stitches the child's subgraph in as a concurrent
// sibling of whatever the parent does afterward).
type TaskFrame struct {
	elapsedTime int64
	task        TaskID
	hasTask     bool

	tip      *eventgraph.EventGraph
	history  []HistoryEntry
	branches []branch
}

// NewTaskFrame creates a frame for task, seeded with the retained history
// visible to it. history is not copied; the frame never mutates it.
func NewTaskFrame(elapsedTime int64, task TaskID, history []HistoryEntry) *TaskFrame {
	return &TaskFrame{
		elapsedTime: elapsedTime,
		task:        task,
		hasTask:     true,
		tip:         eventgraph.Empty(),
		history:     history,
	}
}

// Emit records topic=value as produced by this frame's task.
func (f *TaskFrame) Emit(topic eventgraph.Topic, value any) *Error {
	if !f.hasTask {
		return newError(ErrEmitWithoutTask, "topic %v", topic)
	}
	f.tip = eventgraph.Seq(f.tip, eventgraph.Atom(eventgraph.Event{Topic: topic, Value: value, Progeny: f.task}))
	return nil
}

// Read records a read of topics by this frame's task, and returns the
// retained-plus-current history filtered down to those topics.
func (f *TaskFrame) Read(topics []eventgraph.Topic) []HistoryEntry {
	f.tip = eventgraph.Seq(f.tip, eventgraph.Atom(eventgraph.Event{Topic: eventgraph.ReadTopic{}, Value: topics, Progeny: f.task}))

	topicSet := make(map[eventgraph.Topic]struct{}, len(topics))
	for _, t := range topics {
		topicSet[t] = struct{}{}
	}

	var out []HistoryEntry
	for _, entry := range f.visibleHistory() {
		filtered := eventgraph.Filter(entry.Graph, topicSet)
		if !eventgraph.IsEmpty(filtered) {
			out = append(out, HistoryEntry{Time: entry.Time, Graph: filtered})
		}
	}
	return out
}

// Spawn closes off the current tip as a new branch paired with a child's
// collected event graph, so that Collect later stitches the child in as a
// concurrent sibling of everything the parent does from this point forward.
func (f *TaskFrame) Spawn(childGraph *eventgraph.EventGraph) {
	f.branches = append(f.branches, branch{base: f.tip, graph: childGraph})
	f.tip = eventgraph.Empty()
}

func (f *TaskFrame) visibleHistory() []HistoryEntry {
	res := eventgraph.Empty()
	for _, br := range f.branches {
		res = eventgraph.Seq(res, br.base)
	}
	res = eventgraph.Seq(res, f.tip)

	out := make([]HistoryEntry, 0, len(f.history)+1)
	out = append(out, f.history...)
	out = append(out, HistoryEntry{Time: f.elapsedTime, Graph: res})
	return out
}

// Collect folds every branch back in, right to left, producing the full
// event graph this frame's task (and every child it spawned) produced.
func (f *TaskFrame) Collect() *eventgraph.EventGraph {
	res := f.tip
	for i := len(f.branches) - 1; i >= 0; i-- {
		br := f.branches[i]
		res = eventgraph.Seq(br.base, eventgraph.Conc(br.graph, res))
	}
	return res
}
