package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-jengelke/aerie-go/internal/activity"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// stubModel is a minimal activity.Model used only to exercise the engine's
// own mechanics, independent of the reference model in package demomodel.
type stubModel struct {
	attrs map[string]any
	types map[string]activity.ActivityFunc
}

func (m *stubModel) ActivityTypes() map[string]activity.ActivityFunc { return m.types }
func (m *stubModel) AttributeNames() []string {
	names := make([]string, 0, len(m.attrs))
	for k := range m.attrs {
		names = append(names, k)
	}
	return names
}
func (m *stubModel) GetAttribute(name string) any { return m.attrs[name] }

func TestSimulateEmitThenDelayThenComplete(t *testing.T) {
	model := &stubModel{attrs: map[string]any{}, types: map[string]activity.ActivityFunc{}}
	model.types["set_and_wait"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.Emit("x", 50)
		h.Delay(10)
		return map[string]any{"final": true}, nil
	}

	p := plan.Plan{{Type: "set_and_wait", StartTime: 0, Args: nil}}
	spans, events, payload, err := Simulate(model, p)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, int64(0), spans[0].Start)
	assert.Equal(t, int64(10), spans[0].End)

	var renders []string
	for _, e := range events {
		renders = append(renders, eventgraph.String(e.Graph))
	}
	assert.Contains(t, renders, "x=50")
	assert.NotNil(t, payload)
	assert.Len(t, payload.TaskDirectives, 1)
}

func TestSimulateSpawnIsConcurrentWithParent(t *testing.T) {
	model := &stubModel{attrs: map[string]any{}, types: map[string]activity.ActivityFunc{}}
	model.types["parent"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.Spawn("child", nil)
		h.Emit("parent_done", true)
		return nil, nil
	}
	model.types["child"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.Emit("child_done", true)
		return nil, nil
	}

	p := plan.Plan{{Type: "parent", StartTime: 0, Args: nil}}
	spans, events, _, err := Simulate(model, p)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	var renders []string
	for _, e := range events {
		renders = append(renders, eventgraph.String(e.Graph))
	}
	assert.Contains(t, renders, "(child_done=true|parent_done=true)")
}

func TestSimulateCallBlocksParentUntilChildCompletes(t *testing.T) {
	model := &stubModel{attrs: map[string]any{}, types: map[string]activity.ActivityFunc{}}
	model.types["caller"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		result := h.Call("callee", nil)
		h.Emit("from_callee", result["value"])
		return nil, nil
	}
	model.types["callee"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.Delay(5)
		return map[string]any{"value": 7}, nil
	}

	p := plan.Plan{{Type: "caller", StartTime: 0, Args: nil}}
	spans, events, _, err := Simulate(model, p)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	var renders []string
	for _, e := range events {
		renders = append(renders, eventgraph.String(e.Graph))
	}
	assert.Contains(t, renders, "from_callee=7", "the caller must see the actual completed child result, not a zero value")

	var callerSpan Span
	for _, s := range spans {
		if s.Directive.Type == "caller" {
			callerSpan = s
		}
	}
	assert.Equal(t, int64(5), callerSpan.End, "caller must not complete before its called child")
}

func TestSimulateAwaitConditionResumesWhenTrue(t *testing.T) {
	model := &stubModel{attrs: map[string]any{"x": 0}, types: map[string]activity.ActivityFunc{}}
	model.types["setter"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.Delay(3)
		h.Emit("x", 99)
		return nil, nil
	}
	model.types["waiter"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		h.AwaitCondition(func(r activity.Reader) bool {
			v, ok := r.Value("x")
			return ok && v == 99
		})
		return nil, nil
	}

	p := plan.Plan{
		{Type: "setter", StartTime: 0, Args: nil},
		{Type: "waiter", StartTime: 0, Args: nil},
	}
	spans, _, _, err := Simulate(model, p)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	for _, s := range spans {
		if s.Directive.Type == "waiter" {
			assert.Equal(t, int64(3), s.End)
		}
	}
}

func TestSimulateUnknownActivityFails(t *testing.T) {
	model := &stubModel{attrs: map[string]any{}, types: map[string]activity.ActivityFunc{}}
	p := plan.Plan{{Type: "does_not_exist", StartTime: 0, Args: nil}}
	_, _, _, err := Simulate(model, p)
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.ErrorIs(t, engErr, ErrUnknownActivity)
}

func TestSimulateActivityErrorFails(t *testing.T) {
	model := &stubModel{attrs: map[string]any{}, types: map[string]activity.ActivityFunc{}}
	model.types["broken"] = func(h *activity.Handle, args map[string]any) (map[string]any, error) {
		return nil, assertError{}
	}
	p := plan.Plan{{Type: "broken", StartTime: 0, Args: nil}}
	_, _, _, err := Simulate(model, p)
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.ErrorIs(t, engErr, ErrActivityFailed)
}

type assertError struct{}

func (assertError) Error() string { return "broken" }
