package incremental

import "github.com/jpl-jengelke/aerie-go/internal/eventgraph"

// getStaleReads walks g, threading a set of "invalidated" topics through
// Sequentially nodes (a later read sees everything an earlier sibling
// invalidated) but keeping Concurrently branches mutually blind (a deleted
// emit on one concurrent branch must never poison a read on the other). It
// returns every READ atom whose topic list intersects the topics invalidated
// strictly before it in happens-before order.
func getStaleReads(g *eventgraph.EventGraph, staleTopics map[eventgraph.Topic]struct{}) []eventgraph.Event {
	reads, _ := walkStale(g, staleTopics)
	return reads
}

func walkStale(g *eventgraph.EventGraph, staleTopics map[eventgraph.Topic]struct{}) ([]eventgraph.Event, map[eventgraph.Topic]struct{}) {
	if eventgraph.IsEmpty(g) {
		return nil, staleTopics
	}
	if e, ok := eventgraph.AsAtom(g); ok {
		if _, isRead := e.Topic.(eventgraph.ReadTopic); isRead {
			if readIntersects(e, staleTopics) {
				return []eventgraph.Event{e}, staleTopics
			}
			return nil, staleTopics
		}
		return nil, withTopic(staleTopics, e.Topic)
	}
	if prefix, suffix, ok := eventgraph.AsSeq(g); ok {
		prefixReads, prefixTopics := walkStale(prefix, staleTopics)
		suffixReads, suffixTopics := walkStale(suffix, union(staleTopics, prefixTopics))
		return append(prefixReads, suffixReads...), union(prefixTopics, suffixTopics)
	}
	if left, right, ok := eventgraph.AsConc(g); ok {
		leftReads, leftTopics := walkStale(left, staleTopics)
		rightReads, rightTopics := walkStale(right, staleTopics)
		return append(leftReads, rightReads...), union(leftTopics, rightTopics)
	}
	return nil, staleTopics
}

func readIntersects(e eventgraph.Event, staleTopics map[eventgraph.Topic]struct{}) bool {
	readTopics, _ := e.Value.([]eventgraph.Topic)
	for _, t := range readTopics {
		if _, ok := staleTopics[t]; ok {
			return true
		}
	}
	return false
}

func withTopic(s map[eventgraph.Topic]struct{}, t eventgraph.Topic) map[eventgraph.Topic]struct{} {
	out := make(map[eventgraph.Topic]struct{}, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[t] = struct{}{}
	return out
}

func union(a, b map[eventgraph.Topic]struct{}) map[eventgraph.Topic]struct{} {
	out := make(map[eventgraph.Topic]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
