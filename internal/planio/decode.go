package planio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// directiveJSON mirrors the CLI's plan file shape: [{type,start_time,args}].
type directiveJSON struct {
	Type      string         `json:"type"`
	StartTime int64          `json:"start_time"`
	Args      map[string]any `json:"args"`
}

// DecodePlan reads a JSON array of directives from r.
func DecodePlan(r io.Reader) (plan.Plan, error) {
	var raw []directiveJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	out := make(plan.Plan, len(raw))
	for i, d := range raw {
		out[i] = plan.Directive{Type: d.Type, StartTime: d.StartTime, Args: d.Args}
	}
	return out, nil
}
