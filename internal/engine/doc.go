// Package engine is the simulation kernel: it advances tasks (package
// activity coroutines) against a time-ordered schedule, records everything
// they do as an event graph (package eventgraph), and produces the spans and
// event history a completed simulation run is judged by.
//
// Simulate is a full, non-incremental run. Package incremental builds on top
// of this package's exported bookkeeping (Payload) to replay only the tasks
// a plan change actually invalidates.
package engine
