// Package merge reconciles two replicas of a mergeable object using their
// vector clocks. An Engine is built once per object type: it reflects over
// the struct's exported fields, binds each to a merge rule, and then merges
// replica pairs without any further discovery work.
//
// A mergeable type embeds Replica (which carries the vector clock and the
// Touch operation) and declares its per-field policy with `merge` struct
// tags:
//
//	type Drone struct {
//		merge.Replica
//		Speed     float64            `merge:"max"`
//		Armed     bool               `merge:"or"`
//		Forces    mapset.Set[string] `merge:"union"`
//		DebugInfo string             `merge:"-"`
//	}
//
// Untagged fields default to vector-clock last-write-wins; `merge:"-"`
// excludes a field from merging (it is copied from the local side on Merge
// and left untouched on MergeInto). Built-in tag names: lww, local, remote,
// or, and, sum, max, min, average, longest, shortest, append, uappend,
// union, mostupdates, highestcontribution, majority, lexicographic, random.
// Parameterized rules (rules.Blend, rules.NodeWins, rules.TrustWeighted,
// rules.DictMerge, rules.Timestamped, rules.Priority) are bound
// programmatically with SetRule or a Resolver, which also override any tag.
//
// Fields are discovered once, at engine construction; the engine computes
// the causal relation between two replicas once per merge and applies it to
// every field, because the object carries a single clock. Only when the
// replicas are concurrent does a field's bound rule run.
//
// Merges through one engine are safe concurrently as long as no replica
// involved is being mutated; SetRule is not synchronized against in-flight
// merges and must be serialized by the caller.
package merge
