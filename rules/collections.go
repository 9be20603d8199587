package rules

import (
	mapset "github.com/deckarep/golang-set/v2"

	"fieldmerge/clock"
)

// SetUnion resolves concurrent sets to their union. The merge is grow-only:
// monotone, commutative and idempotent, so replicas converge under any
// delivery order. Nil sets are treated as empty and the result is a fresh
// set sharing no storage with either input.
func SetUnion[E comparable]() Rule[mapset.Set[E]] {
	return setUnion[E]{}
}

type setUnion[E comparable] struct{}

func (setUnion[E]) Merge(local, remote mapset.Set[E], _, _ clock.VectorClock) mapset.Set[E] {
	merged := mapset.NewSet[E]()
	if local != nil {
		merged.Append(local.ToSlice()...)
	}
	if remote != nil {
		merged.Append(remote.ToSlice()...)
	}
	return merged
}

// Append resolves concurrent lists by concatenating local then remote into a
// fresh slice. Nil slices are treated as empty.
func Append[E any]() Rule[[]E] {
	return appendRule[E]{}
}

type appendRule[E any] struct{}

func (appendRule[E]) Merge(local, remote []E, _, _ clock.VectorClock) []E {
	merged := make([]E, 0, len(local)+len(remote))
	merged = append(merged, local...)
	merged = append(merged, remote...)
	return merged
}

// UniqueAppend resolves concurrent lists to local followed by the remote
// items not already present in local, preserving order. Duplicates within
// local itself are kept as-is; remote contributes each missing item once.
func UniqueAppend[E comparable]() Rule[[]E] {
	return uniqueAppend[E]{}
}

type uniqueAppend[E comparable] struct{}

func (uniqueAppend[E]) Merge(local, remote []E, _, _ clock.VectorClock) []E {
	seen := mapset.NewSet[E]()
	merged := make([]E, 0, len(local)+len(remote))
	for _, e := range local {
		seen.Add(e)
		merged = append(merged, e)
	}
	for _, e := range remote {
		if seen.Add(e) {
			merged = append(merged, e)
		}
	}
	return merged
}

// DictMerge resolves concurrent maps key by key: the result starts from
// local; remote keys missing locally are inserted, and keys present on both
// sides are resolved by the inner rule under the same pair of clocks. A nil
// inner rule falls back to LastWriteWins. The result is a fresh map.
func DictMerge[K comparable, V any](inner Rule[V]) Rule[map[K]V] {
	if inner == nil {
		inner = LastWriteWins[V]()
	}
	return dictMerge[K, V]{inner: inner}
}

type dictMerge[K comparable, V any] struct {
	inner Rule[V]
}

func (d dictMerge[K, V]) Merge(local, remote map[K]V, localClock, remoteClock clock.VectorClock) map[K]V {
	merged := make(map[K]V, len(local)+len(remote))
	for k, v := range local {
		merged[k] = v
	}
	for k, rv := range remote {
		lv, ok := merged[k]
		if !ok {
			merged[k] = rv
			continue
		}
		merged[k] = d.inner.Merge(lv, rv, localClock, remoteClock)
	}
	return merged
}
