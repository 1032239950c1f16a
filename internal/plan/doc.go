// Package plan defines the input surface to a simulation: a time-ordered set
// of directives instructing the engine which activity to start and when, plus
// the structural diff used by the incremental engine to decide what changed
// between two plans.
package plan
