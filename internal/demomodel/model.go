package demomodel

import (
	"github.com/jpl-jengelke/aerie-go/internal/activity"
)

// Model is a small, fully-exercised activity.Model: three attributes and six
// activities spanning every suspension kind the engine supports.
type Model struct {
	x, y, z any
}

// New returns a Model with its attributes at their baseline values.
func New() *Model {
	return &Model{x: 55, y: 0, z: 0}
}

func (m *Model) AttributeNames() []string { return []string{"x", "y", "z"} }

func (m *Model) GetAttribute(name string) any {
	switch name {
	case "x":
		return m.x
	case "y":
		return m.y
	case "z":
		return m.z
	default:
		return nil
	}
}

// ActivityTypes returns the six reference activities. Each is a plain
// func(*activity.Handle, map[string]any) (map[string]any, error) — there is
// no separate "coroutine" registration, since whether an activity suspends
// at all is just a property of whether its body calls a suspending Handle
// method.
func (m *Model) ActivityTypes() map[string]activity.ActivityFunc {
	return map[string]activity.ActivityFunc{
		"my_activity":             m.myActivity,
		"my_other_activity":       m.myOtherActivity,
		"my_decomposing_activity": m.myDecomposingActivity,
		"my_child_activity":       m.myChildActivity,
		"caller_activity":         m.callerActivity,
		"callee_activity":         m.calleeActivity,
	}
}

// myActivity emits x once and delays, the minimal shape exercising Emit then
// a true suspension before completing.
func (m *Model) myActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	h.Emit("x", m.x)
	h.Delay(1)
	return nil, nil
}

// myOtherActivity waits for x to cross a threshold supplied in args (or 100
// if absent), exercising AwaitCondition and a Read through the condition's
// own frame.
func (m *Model) myOtherActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	threshold := 100
	if v, ok := args["threshold"].(int); ok {
		threshold = v
	}
	h.AwaitCondition(func(r activity.Reader) bool {
		v, ok := r.Value("x")
		n, isInt := v.(int)
		return ok && isInt && n >= threshold
	})
	h.Emit("y", threshold)
	return nil, nil
}

// myDecomposingActivity spawns a child and continues independently of it,
// exercising Spawn's concurrent-with-parent semantics.
func (m *Model) myDecomposingActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	h.Spawn("my_child_activity", nil)
	h.Emit("z", "decomposed")
	return nil, nil
}

func (m *Model) myChildActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	h.Emit("z", "child_ran")
	return nil, nil
}

// callerActivity blocks on callee_activity via Call, exercising the
// synthetic FINISH read the caller observes on resumption.
func (m *Model) callerActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	result := h.Call("callee_activity", args)
	h.Emit("y", result["value"])
	return result, nil
}

// calleeActivity delays before completing, so its caller genuinely suspends
// rather than resuming synchronously.
func (m *Model) calleeActivity(h *activity.Handle, args map[string]any) (map[string]any, error) {
	h.Delay(2)
	value := 0
	if v, ok := args["value"].(int); ok {
		value = v
	}
	return map[string]any{"value": value}, nil
}
