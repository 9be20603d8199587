// Package clock provides the vector clock used to track causality between
// replicas of a mergeable object. Vector clocks maintain per-node counters
// that capture happened-before relationships; comparing two clocks yields a
// Relation (Before, After, Equal, Concurrent) that drives conflict
// resolution.
package clock
