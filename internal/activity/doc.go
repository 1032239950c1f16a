// Package activity runs one model-defined activity function as a cooperative
// coroutine on top of a plain goroutine, emulating the suspend/resume
// generator semantics the simulation kernel needs without any native
// generator support in the language.
//
// Each Task owns exactly one goroutine and two unbuffered channels. At any
// instant at most one of {the engine goroutine, the task's goroutine} is
// runnable; the other is parked on a channel receive. This keeps every
// run race-detector clean despite the goroutine-per-task design: there is
// no shared mutable state that both sides can touch concurrently, only a
// strict back-and-forth handoff.
package activity
