// Package demomodel is a reference activity.Model used by the engine and
// incremental test suites to exercise every suspension kind end-to-end:
// plain one-shot completion, Delay, AwaitCondition, Spawn, and Call.
//
// It mirrors the attribute and activity names of the baseline scenario
// described for this kernel (attributes x, y, z; activities my_activity,
// my_other_activity, my_decomposing_activity, caller_activity,
// callee_activity, my_child_activity) without attempting to reproduce that
// scenario's exact numeric trace, since the bodies that produced those
// numbers are a model-DSL concern outside this kernel's scope.
package demomodel
