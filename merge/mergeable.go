package merge

import (
	"fieldmerge/clock"
)

// Mergeable is the capability every replica type must satisfy. Embedding
// Replica in a struct provides the whole interface.
type Mergeable interface {
	// VectorClock returns the replica's clock. May be nil before the first
	// update; a nil clock behaves as empty everywhere.
	VectorClock() clock.VectorClock
	// SetVectorClock replaces the replica's clock.
	SetVectorClock(clock.VectorClock)
	// Touch records one local update originating at the given node.
	Touch(node string)
}

// Replica is the embeddable base of every mergeable type. It carries the
// object-level vector clock; the engine never treats the embedded field as
// mergeable data.
type Replica struct {
	Clock clock.VectorClock
}

// VectorClock returns the replica's clock.
func (r *Replica) VectorClock() clock.VectorClock {
	return r.Clock
}

// SetVectorClock replaces the replica's clock.
func (r *Replica) SetVectorClock(c clock.VectorClock) {
	r.Clock = c
}

// Touch increments the clock's counter for the given node, allocating the
// clock on first use.
func (r *Replica) Touch(node string) {
	if r.Clock == nil {
		r.Clock = clock.New()
	}
	r.Clock.Increment(node)
}

// Update applies a local mutation to a replica and then advances its clock
// for the originating node. The clock moves only if the mutation returns
// nil: a failed update leaves the replica's causal history unchanged. This
// is the one sanctioned way clocks advance.
func Update[T Mergeable](replica T, node string, mutate func(T) error) error {
	if node == "" {
		return ErrEmptyNodeID
	}
	if mutate == nil {
		return ErrNilUpdate
	}
	if err := mutate(replica); err != nil {
		return err
	}
	replica.Touch(node)
	return nil
}
