// Package rules provides the catalog of per-field merge rules used by the
// merge engine when two replicas carry concurrent updates. Every rule
// implements Rule[V] for its value type: boolean combinators, numeric
// aggregates, string and collection merges, timestamp/priority registers,
// and clock-statistic arbiters that pick a whole side based on the two
// vector clocks.
//
// Rules are only consulted when the replicas' clocks are concurrent; the
// engine resolves Before/After/Equal itself. The exception is LastWriteWins,
// which reproduces the engine's full dispatch and can stand alone.
package rules
