package engine

// Arena mints globally unique TaskIDs. Unlike the reference implementation,
// which keys its tables off Python generator object identity (automatically
// unique per object), Go TaskIDs are small integers that must be minted from
// a single counter shared across every Engine instance that can contribute
// tasks to the same payload — including the engine's own recursive mid-tick
// resimulation and, later, an incremental rerun seeded from a prior run's
// Payload. Sharing one Arena (rather than letting each Engine start counting
// from zero) is what keeps those tables collision-free.
type Arena struct {
	next TaskID
}

// NewArena returns an arena that mints IDs starting after start. Pass the
// zero value to start a fresh numbering; pass a prior Payload's NextTaskID
// to continue one.
func NewArena(start TaskID) *Arena {
	return &Arena{next: start}
}

func (a *Arena) mint() TaskID {
	a.next++
	return a.next
}

// Peek returns the next value NewArena would need to continue this arena's
// numbering without collision.
func (a *Arena) Peek() TaskID {
	return a.next
}
