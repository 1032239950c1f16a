package demomodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

func render(events []engine.HistoryEntry) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = eventgraph.String(e.Graph)
	}
	return out
}

func TestMyActivityEmitsXThenDelays(t *testing.T) {
	p := plan.Plan{{Type: "my_activity", StartTime: 0, Args: nil}}
	spans, events, _, err := engine.Simulate(New(), p)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, int64(0), spans[0].Start)
	assert.Equal(t, int64(1), spans[0].End)
	assert.Contains(t, render(events), "x=55")
}

func TestMyOtherActivityAwaitsThreshold(t *testing.T) {
	p := plan.Plan{
		{Type: "my_activity", StartTime: 0, Args: nil},
		{Type: "my_other_activity", StartTime: 0, Args: map[string]any{"threshold": 55}},
	}
	spans, _, _, err := engine.Simulate(New(), p)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	for _, s := range spans {
		if s.Directive.Type == "my_other_activity" {
			assert.Equal(t, int64(0), s.End, "x already meets the threshold at time 0")
		}
	}
}

func TestMyDecomposingActivitySpawnsChildConcurrently(t *testing.T) {
	p := plan.Plan{{Type: "my_decomposing_activity", StartTime: 0, Args: nil}}
	spans, events, _, err := engine.Simulate(New(), p)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	renders := render(events)
	assert.Contains(t, renders, "(z=child_ran|z=decomposed)")
}

func TestCallerActivityBlocksOnCallee(t *testing.T) {
	p := plan.Plan{{Type: "caller_activity", StartTime: 0, Args: map[string]any{"value": 9}}}
	spans, events, _, err := engine.Simulate(New(), p)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	var callerSpan engine.Span
	for _, s := range spans {
		if s.Directive.Type == "caller_activity" {
			callerSpan = s
		}
	}
	assert.Equal(t, int64(2), callerSpan.End, "caller must not complete before its called callee")
	assert.Contains(t, render(events), "y=9")
}
