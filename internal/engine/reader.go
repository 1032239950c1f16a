package engine

import (
	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
)

// frameReader adapts a TaskFrame to activity.Reader, so an AwaitCondition
// predicate can inspect engine state while its task is dormant. Every call
// to Value performs (and records) a real read through the frame, exactly as
// if the awaiting task itself had called Handle.Read — this is what lets the
// incremental engine later recognize a condition recheck as depending on
// whichever topics it happened to inspect.
//
// model supplies the same fallback Engine.handleRead gives Handle.Read: a
// topic never emitted in history still resolves to the model's own
// attribute value, so a condition can be satisfied by a model's baseline
// state without requiring some task to have emitted it first.
type frameReader struct {
	frame *TaskFrame
	model activity.Model
}

func (r frameReader) Value(topic string) (any, bool) {
	entries := r.frame.Read([]eventgraph.Topic{eventgraph.UserTopic{Name: topic}})
	var (
		value any
		found bool
	)
	for _, entry := range entries {
		eventgraph.Walk(entry.Graph, func(e eventgraph.Event) {
			if ut, ok := e.Topic.(eventgraph.UserTopic); ok && ut.Name == topic {
				value = e.Value
				found = true
			}
		})
	}
	if found {
		return value, true
	}
	if r.model == nil {
		return nil, false
	}
	for _, name := range r.model.AttributeNames() {
		if name == topic {
			return r.model.GetAttribute(topic), true
		}
	}
	return nil, false
}
