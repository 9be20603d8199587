package rules

import (
	"fieldmerge/clock"
)

// Rule resolves two conflicting values of type V into one. The local and
// remote clocks are the whole-object clocks of the two replicas; value-based
// rules ignore them, clock-statistic rules use nothing else.
//
// Implementations must not mutate their inputs, and collection rules must
// return results that share no storage with either input.
type Rule[V any] interface {
	Merge(local, remote V, localClock, remoteClock clock.VectorClock) V
}

// Number covers the built-in numeric types accepted by Sum.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Float covers the floating point types accepted by Average and Blend.
type Float interface {
	~float32 | ~float64
}
