package rules

import (
	"fieldmerge/clock"
)

// Or resolves concurrent booleans to local OR remote. Once any replica sets
// the flag it survives every merge.
func Or() Rule[bool] {
	return orRule{}
}

type orRule struct{}

func (orRule) Merge(local, remote bool, _, _ clock.VectorClock) bool {
	return local || remote
}

// And resolves concurrent booleans to local AND remote. The flag stays set
// only while every replica agrees.
func And() Rule[bool] {
	return andRule{}
}

type andRule struct{}

func (andRule) Merge(local, remote bool, _, _ clock.VectorClock) bool {
	return local && remote
}
