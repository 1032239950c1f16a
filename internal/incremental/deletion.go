package incremental

import (
	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
)

// deletionClosure returns every task transitively descended (via spawn or
// call) from the tasks that started the removed directives.
func deletionClosure(removed []plan.Directive, payload *engine.Payload) map[engine.TaskID]struct{} {
	deleted := map[engine.TaskID]struct{}{}
	var worklist []engine.TaskID

	add := func(id engine.TaskID) {
		if _, ok := deleted[id]; ok {
			return
		}
		deleted[id] = struct{}{}
		worklist = append(worklist, id)
	}

	for _, d := range removed {
		if id, ok := payload.PlanDirectiveToTask[plan.ComputeKey(d)]; ok {
			add(id)
		}
	}

	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, child := range payload.TaskChildrenSpawned[id] {
			add(child)
		}
		for _, child := range payload.TaskChildrenCalled[id] {
			add(child)
		}
	}

	return deleted
}
