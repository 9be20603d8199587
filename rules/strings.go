package rules

import (
	"fieldmerge/clock"
)

// LongestString keeps the longer string; ties keep local. The empty string
// has length zero, so any non-empty side wins over it.
func LongestString() Rule[string] {
	return longestString{}
}

type longestString struct{}

func (longestString) Merge(local, remote string, _, _ clock.VectorClock) string {
	if len(remote) > len(local) {
		return remote
	}
	return local
}

// ShortestString keeps the shorter string; ties keep local.
func ShortestString() Rule[string] {
	return shortestString{}
}

type shortestString struct{}

func (shortestString) Merge(local, remote string, _, _ clock.VectorClock) string {
	if len(remote) < len(local) {
		return remote
	}
	return local
}
