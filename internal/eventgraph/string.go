package eventgraph

import (
	"fmt"
	"strings"
)

// String renders g for tests and debugging: atoms as "topic=value",
// Sequentially as "a;b", Concurrently as "(a|b)", with Empty omitted
// entirely. This is the canonical test-facing renderer; nothing in the
// engine depends on its exact formatting.
func String(g *EventGraph) string {
	if IsEmpty(g) {
		return ""
	}
	if e, ok := AsAtom(g); ok {
		return fmt.Sprintf("%v=%v", e.Topic, e.Value)
	}
	if prefix, suffix, ok := AsSeq(g); ok {
		return String(prefix) + ";" + String(suffix)
	}
	if left, right, ok := AsConc(g); ok {
		var b strings.Builder
		b.WriteByte('(')
		b.WriteString(String(left))
		b.WriteByte('|')
		b.WriteString(String(right))
		b.WriteByte(')')
		return b.String()
	}
	return ""
}
