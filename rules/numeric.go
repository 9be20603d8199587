package rules

import (
	"cmp"

	"fieldmerge/clock"
)

// Sum resolves concurrent numbers to their sum. Meaningful for counters
// where both sides accumulated independent increments.
func Sum[V Number]() Rule[V] {
	return sumRule[V]{}
}

type sumRule[V Number] struct{}

func (sumRule[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	return local + remote
}

// Max keeps the greater of the two values.
func Max[V cmp.Ordered]() Rule[V] {
	return maxRule[V]{}
}

type maxRule[V cmp.Ordered] struct{}

func (maxRule[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	if remote > local {
		return remote
	}
	return local
}

// Min keeps the lesser of the two values.
func Min[V cmp.Ordered]() Rule[V] {
	return minRule[V]{}
}

type minRule[V cmp.Ordered] struct{}

func (minRule[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	if remote < local {
		return remote
	}
	return local
}

// Average resolves concurrent floats to their arithmetic mean.
func Average[V Float]() Rule[V] {
	return averageRule[V]{}
}

type averageRule[V Float] struct{}

func (averageRule[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	return (local + remote) / 2
}

// Blend resolves concurrent floats to local*(1-w) + remote*w. A weight of 0
// keeps local, 1 adopts remote, 0.5 behaves like Average.
func Blend[V Float](w float64) Rule[V] {
	return blendRule[V]{w: w}
}

type blendRule[V Float] struct {
	w float64
}

func (b blendRule[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	return V(float64(local)*(1-b.w) + float64(remote)*b.w)
}
