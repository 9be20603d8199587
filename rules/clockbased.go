package rules

import (
	"math/rand"

	"fieldmerge/clock"
)

// The rules in this file never look at the values. They arbitrate between
// whole sides using statistics of the two vector clocks, so they work for
// any value type. Every tie keeps local.

// NodeWins adopts whichever side's clock carries the greater counter for the
// given node. A replica that has seen more of that node's updates wins.
func NodeWins[V any](node string) Rule[V] {
	return nodeWins[V]{node: node}
}

type nodeWins[V any] struct {
	node string
}

func (r nodeWins[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if remoteClock.Get(r.node) > localClock.Get(r.node) {
		return remote
	}
	return local
}

// MostUpdates adopts the side whose clock counters sum highest: the replica
// that has observed the most updates overall.
func MostUpdates[V any]() Rule[V] {
	return mostUpdates[V]{}
}

type mostUpdates[V any] struct{}

func (mostUpdates[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if counterSum(remoteClock) > counterSum(localClock) {
		return remote
	}
	return local
}

func counterSum(vc clock.VectorClock) int64 {
	var sum int64
	for _, counter := range vc {
		sum += counter
	}
	return sum
}

// HighestContribution adopts the side whose clock holds the single largest
// counter: the replica carrying the most updates from any one node.
func HighestContribution[V any]() Rule[V] {
	return highestContribution[V]{}
}

type highestContribution[V any] struct{}

func (highestContribution[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if maxCounter(remoteClock) > maxCounter(localClock) {
		return remote
	}
	return local
}

func maxCounter(vc clock.VectorClock) int64 {
	var top int64
	for _, counter := range vc {
		if counter > top {
			top = counter
		}
	}
	return top
}

// TrustWeighted adopts the side with the greater trust-weighted counter sum.
// Nodes missing from the weight table weigh 1; a weight of 0 silences a
// node entirely.
func TrustWeighted[V any](weights map[string]float64) Rule[V] {
	return trustWeighted[V]{weights: weights}
}

type trustWeighted[V any] struct {
	weights map[string]float64
}

func (r trustWeighted[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if r.weightedSum(remoteClock) > r.weightedSum(localClock) {
		return remote
	}
	return local
}

func (r trustWeighted[V]) weightedSum(vc clock.VectorClock) float64 {
	var sum float64
	for node, counter := range vc {
		weight, ok := r.weights[node]
		if !ok {
			weight = 1
		}
		sum += float64(counter) * weight
	}
	return sum
}

// Majority adopts the side whose clock names more nodes: the replica that
// has heard from the larger share of the cluster.
func Majority[V any]() Rule[V] {
	return majority[V]{}
}

type majority[V any] struct{}

func (majority[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	if len(remoteClock) > len(localClock) {
		return remote
	}
	return local
}

// LexicographicNodeWins adopts the side whose lexicographically smallest
// clock key sorts first. An empty clock always loses to a non-empty one;
// two empty clocks keep local.
func LexicographicNodeWins[V any]() Rule[V] {
	return lexicographicNodeWins[V]{}
}

type lexicographicNodeWins[V any] struct{}

func (lexicographicNodeWins[V]) Merge(local, remote V, localClock, remoteClock clock.VectorClock) V {
	localMin, localOK := minKey(localClock)
	remoteMin, remoteOK := minKey(remoteClock)
	switch {
	case !remoteOK:
		return local
	case !localOK:
		return remote
	case remoteMin < localMin:
		return remote
	default:
		return local
	}
}

func minKey(vc clock.VectorClock) (string, bool) {
	var min string
	found := false
	for node := range vc {
		if !found || node < min {
			min = node
			found = true
		}
	}
	return min, found
}

// RandomChoice flips a coin between the two sides. The one explicitly
// nondeterministic rule in the catalog; pass a seeded *rand.Rand for
// reproducible runs, or nil to use the shared source.
func RandomChoice[V any](rng *rand.Rand) Rule[V] {
	return randomChoice[V]{rng: rng}
}

type randomChoice[V any] struct {
	rng *rand.Rand
}

func (r randomChoice[V]) Merge(local, remote V, _, _ clock.VectorClock) V {
	coin := rand.Intn
	if r.rng != nil {
		coin = r.rng.Intn
	}
	if coin(2) == 1 {
		return remote
	}
	return local
}
