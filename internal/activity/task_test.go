package activity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceHandlesTransparentOpsInline(t *testing.T) {
	var emitted []string
	var readCalls [][]string

	callbacks := Callbacks{
		OnEmit: func(topic string, value any) { emitted = append(emitted, topic) },
		OnRead: func(topics []string) map[string]any {
			readCalls = append(readCalls, topics)
			return map[string]any{"x": 50}
		},
		OnSpawn: func(activityType string, args map[string]any) any { return 7 },
	}

	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		h.Emit("x", 50)
		values := h.Read("x")
		if values["x"] != 50 {
			t.Errorf("expected read to see x=50, got %v", values["x"])
		}
		ref := h.Spawn("my_other_activity", nil)
		if ref != 7 {
			t.Errorf("expected spawn to return boxed id 7, got %v", ref)
		}
		h.Delay(10)
		return map[string]any{"done": true}, nil
	}

	task := NewTask(fn, nil, callbacks)
	msg := task.Advance(nil)

	require.Equal(t, KindDelay, msg.Kind)
	assert.Equal(t, int64(10), msg.DelayTicks)
	assert.Equal(t, []string{"x"}, emitted)
	assert.Len(t, readCalls, 1)

	final := task.Advance(nil)
	require.Equal(t, KindCompleted, final.Kind)
	assert.Equal(t, true, final.Result["done"])
}

func TestAdvanceReturnsErrorAsFatal(t *testing.T) {
	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		return nil, errors.New("boom")
	}
	task := NewTask(fn, nil, Callbacks{})
	msg := task.Advance(nil)
	require.Equal(t, KindFatal, msg.Kind)
	assert.EqualError(t, msg.Err, "boom")
}

func TestAdvanceRecoversPanicAsFatal(t *testing.T) {
	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		panic("unexpected")
	}
	task := NewTask(fn, nil, Callbacks{})
	msg := task.Advance(nil)
	require.Equal(t, KindFatal, msg.Kind)
	assert.Contains(t, msg.Err.Error(), "unexpected")
}

func TestAdvanceAfterCompletedPanics(t *testing.T) {
	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		return map[string]any{}, nil
	}
	task := NewTask(fn, nil, Callbacks{})
	msg := task.Advance(nil)
	require.Equal(t, KindCompleted, msg.Kind)

	assert.Panics(t, func() { task.Advance(nil) })
}

func TestAwaitConditionIsTrueSuspension(t *testing.T) {
	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		h.AwaitCondition(func(r Reader) bool {
			v, ok := r.Value("x")
			return ok && v == 100
		})
		return map[string]any{}, nil
	}
	task := NewTask(fn, nil, Callbacks{})
	msg := task.Advance(nil)
	require.Equal(t, KindAwaitCondition, msg.Kind)
	require.NotNil(t, msg.Condition)
}

func TestCallIsTrueSuspensionAndCarriesResult(t *testing.T) {
	fn := func(h *Handle, args map[string]any) (map[string]any, error) {
		result := h.Call("callee_activity", map[string]any{"n": 1})
		return map[string]any{"got": result["value"]}, nil
	}
	task := NewTask(fn, nil, Callbacks{})
	msg := task.Advance(nil)
	require.Equal(t, KindCall, msg.Kind)
	assert.Equal(t, "callee_activity", msg.CallType)

	final := task.Advance(map[string]any{"value": 42})
	require.Equal(t, KindCompleted, final.Kind)
	assert.Equal(t, 42, final.Result["got"])
}
