// Package eventgraph implements the persistent event-graph algebra used to
// record everything a task does during one simulation tick: every emitted
// event and every read of prior history, composed so that sequential and
// concurrent relationships between activities remain distinguishable.
//
// # Design Principles
//
// All structures in this package adhere to the following constraints:
//
//  1. Values are immutable once constructed; there is no in-place mutation.
//  2. Construction always goes through the smart constructors (Seq, Conc,
//     Atom, Empty) so that Empty neighbors collapse and the tree never grows
//     spurious structure.
//  3. Structure is preserved exactly under filtering: a Concurrently is never
//     flattened into a Sequentially, because staleness analysis in the
//     incremental engine depends on telling "happened before" apart from
//     "happened at the same instant, unordered".
package eventgraph
