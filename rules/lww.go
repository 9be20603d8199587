package rules

import (
	"fieldmerge/clock"
)

// LastWriteWins returns the vector-clock last-write-wins rule. Unlike the
// rest of the catalog it is a full dispatcher: it compares the two clocks
// itself and keeps local only when local's clock is strictly After remote's.
// Before, Equal and Concurrent all resolve to remote, the deterministic
// symmetric tie-break the engine uses for defaulted fields.
func LastWriteWins[V any]() Rule[V] {
	return lww[V]{}
}

type lww[V any] struct{}

func (lww[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if localClock.Compare(remoteClock) == clock.After {
		return local
	}
	return remote
}

// PreferLocal always keeps the local value.
func PreferLocal[V any]() Rule[V] {
	return preferLocal[V]{}
}

type preferLocal[V any] struct{}

func (preferLocal[V]) Merge(local, _ V, _, _ clock.VectorClock) V {
	return local
}

// PreferRemote always adopts the remote value.
func PreferRemote[V any]() Rule[V] {
	return preferRemote[V]{}
}

type preferRemote[V any] struct{}

func (preferRemote[V]) Merge(_, remote V, _, _ clock.VectorClock) V {
	return remote
}
