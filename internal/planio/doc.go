// Package planio decodes the reference CLI's plan JSON format into
// []plan.Directive and renders a Payload's task table for human-readable
// output. It is scoped to cmd/aeriesim only: plan serialization is
// explicitly a CLI concern, never imported by internal/engine,
// internal/incremental, or internal/eventgraph.
package planio
