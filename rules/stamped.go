package rules

import (
	"time"

	"fieldmerge/clock"
)

// Stamped pairs a value with the wall-clock instant it was written.
type Stamped[V any] struct {
	Value V
	At    time.Time
}

// Timestamped resolves concurrent stamped values to the one with the later
// instant; ties keep local.
func Timestamped[V any]() Rule[Stamped[V]] {
	return timestamped[V]{}
}

type timestamped[V any] struct{}

func (timestamped[V]) Merge(local, remote Stamped[V], _, _ clock.VectorClock) Stamped[V] {
	if remote.At.After(local.At) {
		return remote
	}
	return local
}

// Prioritized pairs a value with an explicit precedence.
type Prioritized[V any] struct {
	Value    V
	Priority int
}

// Priority resolves concurrent prioritized values to the one with the higher
// priority; ties keep local.
func Priority[V any]() Rule[Prioritized[V]] {
	return priority[V]{}
}

type priority[V any] struct{}

func (priority[V]) Merge(local, remote Prioritized[V], _, _ clock.VectorClock) Prioritized[V] {
	if remote.Priority > local.Priority {
		return remote
	}
	return local
}
