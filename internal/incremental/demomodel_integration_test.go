package incremental

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-jengelke/aerie-go/internal/demomodel"
	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
	"github.com/jpl-jengelke/aerie-go/internal/simtrace"
)

// This exercises all three coupled subsystems together against the real
// reference model: a decomposing activity and a blocking Call sit in the
// old plan, the new plan changes the called activity's argument, and the
// incremental run must be observably identical to a full resimulation while
// only replaying the task whose argument actually changed.
func TestIncrementalReplayAgainstDemomodelIsEquivalentToFullRun(t *testing.T) {
	oldPlan := plan.Plan{
		{Type: "my_decomposing_activity", StartTime: 0, Args: nil},
		{Type: "caller_activity", StartTime: 0, Args: map[string]any{"value": 9}},
	}
	newPlan := plan.Plan{
		{Type: "my_decomposing_activity", StartTime: 0, Args: nil},
		{Type: "caller_activity", StartTime: 0, Args: map[string]any{"value": 41}},
	}

	_, _, payload, err := engine.Simulate(demomodel.New(), oldPlan)
	require.NoError(t, err)

	recorder := simtrace.NewRecorder()
	incSpans, incEvents, err := Simulate(demomodel.New(), newPlan, oldPlan, payload, WithTraceSink(recorder))
	require.NoError(t, err)

	fullSpans, fullEvents, _, err := engine.Simulate(demomodel.New(), newPlan)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(spanKeys(fullSpans), spanKeys(incSpans)))
	assert.Equal(t, renderAll(fullEvents), renderAll(incEvents))

	renders := make([]string, len(incEvents))
	for i, e := range incEvents {
		renders[i] = eventgraph.String(e.Graph)
	}
	assert.Contains(t, renders, "y=41", "the caller's new argument must actually flow through the replay")

	trace := recorder.Trace("demomodel-arg-change")
	var decomposingRetained, callerReplayed bool
	for _, d := range trace.Decisions {
		if d.Kind == simtrace.TaskRetained {
			decomposingRetained = true
		}
		if d.Kind == simtrace.TaskReplayed || d.Kind == simtrace.TaskDeleted {
			callerReplayed = true
		}
	}
	assert.True(t, decomposingRetained, "the untouched decomposing activity's task must be retained")
	assert.True(t, callerReplayed, "the changed caller directive must show up as deleted-and-added or stale")
}
