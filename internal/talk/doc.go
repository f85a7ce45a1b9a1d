// Package talk implements the dialogue graph engine.
//
// A dialogue is a directed graph of action nodes: lines of text, actors
// joining or leaving the scene, and player choice points. The graph can be
// produced two ways:
//
//   - from a declarative script (an ordered list of action records with
//     integer ids, see RawScript and Build), or
//   - incrementally through the fluent Builder, where every edge is
//     resolved at call time and dangling references are impossible by
//     construction.
//
// Both producers yield the same Graph structure: an arena of ActionNode
// records addressed by stable NodeID handles, with edges stored as index
// fields inside each record. Construction is all-or-nothing: a script
// that fails validation never yields a partial graph.
//
// Once built, a Graph is immutable and may be shared read-only by any
// number of Cursors. A Cursor is the single mutable pointer into the
// graph; Advance and JumpTo move it, and the query accessors read the
// node under it. The engine is a pure data structure with transition
// functions: nothing blocks, suspends, or schedules.
package talk
