package incremental

import "github.com/jpl-jengelke/aerie-go/internal/simtrace"

// Option configures an incremental Simulate call.
type Option func(*options)

type options struct {
	sink simtrace.Sink
}

// WithTraceSink records every deletion, staleness, and retention decision
// Simulate makes to sink. Decisions are recorded as they are discovered, not
// replayed in any particular order; callers wanting a stable encoding should
// collect them with a simtrace.Recorder and call Canonicalize.
func WithTraceSink(sink simtrace.Sink) Option {
	return func(o *options) { o.sink = sink }
}

func buildOptions(opts []Option) options {
	var o options
	for _, f := range opts {
		f(&o)
	}
	if o.sink == nil {
		o.sink = simtrace.NopSink{}
	}
	return o
}
