package planio

import (
	"fmt"
	"sort"

	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// TaskHashSummary is one row of a Payload's task table, re-encoded for the
// CLI's human-readable output.
type TaskHashSummary struct {
	TaskID       engine.TaskID
	DirectiveKey plan.Key
	Type         string
	StartTime    int64
}

// TaskHashTable re-encodes payload's directive table into a stable,
// sorted-by-TaskID summary the CLI can print without exposing the raw
// bookkeeping maps.
func TaskHashTable(payload *engine.Payload) []TaskHashSummary {
	out := make([]TaskHashSummary, 0, len(payload.TaskDirectives))
	for id, d := range payload.TaskDirectives {
		out = append(out, TaskHashSummary{
			TaskID:       id,
			DirectiveKey: plan.ComputeKey(d),
			Type:         d.Type,
			StartTime:    d.StartTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

func (s TaskHashSummary) String() string {
	return fmt.Sprintf("%s  %-24s start=%d  key=%s", s.TaskID, s.Type, s.StartTime, s.DirectiveKey[:12])
}
