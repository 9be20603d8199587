// Package it holds the integration harness: an in-memory fleet of replicas
// wired to one engine, with update and gossip primitives for exercising
// convergence end to end.
package it

import (
	"fmt"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"

	"fieldmerge/merge"
)

// Telemetry is the fleet's replica type. Every bound rule is idempotent and
// commutative on the concurrent case, so any gossip schedule that spreads
// every update everywhere converges.
type Telemetry struct {
	merge.Replica
	Speed    float64            `merge:"max"`
	Armed    bool               `merge:"or"`
	Forces   mapset.Set[string] `merge:"union"`
	Ceiling  float64            `merge:"min"`
	DebugTag string             `merge:"-"`
}

// Fleet is a set of named replicas plus the shared engine, an in-memory
// stand-in for a cluster of nodes exchanging state.
type Fleet struct {
	engine   *merge.Engine[*Telemetry]
	replicas map[string]*Telemetry
	nodes    []string
}

// NewFleet creates one fresh replica per node ID.
func NewFleet(nodes ...string) (*Fleet, error) {
	engine, err := merge.NewEngine[*Telemetry]()
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	f := &Fleet{
		engine:   engine,
		replicas: make(map[string]*Telemetry, len(nodes)),
		nodes:    append([]string(nil), nodes...),
	}
	for _, node := range nodes {
		f.replicas[node] = newTelemetry()
	}
	return f, nil
}

func newTelemetry() *Telemetry {
	return &Telemetry{
		Forces:  mapset.NewSet[string](),
		Ceiling: 10_000,
	}
}

// Replica returns the live replica held by the given node.
func (f *Fleet) Replica(node string) *Telemetry {
	return f.replicas[node]
}

// Update applies a local mutation at the given node under the touch
// discipline.
func (f *Fleet) Update(node string, mutate func(*Telemetry) error) error {
	replica, ok := f.replicas[node]
	if !ok {
		return fmt.Errorf("unknown node %q", node)
	}
	return merge.Update(replica, node, mutate)
}

// Join adds a new node to the fleet after the fact, with one initial update
// so its clock carries an entry for itself.
func (f *Fleet) Join(node string, mutate func(*Telemetry) error) error {
	if _, ok := f.replicas[node]; ok {
		return fmt.Errorf("node %q already present", node)
	}
	replica := newTelemetry()
	f.replicas[node] = replica
	f.nodes = append(f.nodes, node)
	return merge.Update(replica, node, mutate)
}

// Sync pulls the remote node's state into the local node's replica.
func (f *Fleet) Sync(local, remote string) {
	f.engine.MergeInto(f.replicas[local], f.replicas[remote])
}

// GossipRound has every node pull from one random peer.
func (f *Fleet) GossipRound(rng *rand.Rand) {
	for _, node := range f.nodes {
		peer := f.nodes[rng.Intn(len(f.nodes))]
		if peer == node {
			continue
		}
		f.Sync(node, peer)
	}
}

// FullExchange performs a deterministic all-pairs sync twice, enough for
// every update to reach every replica regardless of fleet size.
func (f *Fleet) FullExchange() {
	for i := 0; i < 2; i++ {
		for _, a := range f.nodes {
			for _, b := range f.nodes {
				if a != b {
					f.Sync(a, b)
				}
			}
		}
	}
}

// Converged reports whether every replica holds the same clock and the same
// mergeable field values.
func (f *Fleet) Converged() bool {
	if len(f.nodes) < 2 {
		return true
	}
	first := f.replicas[f.nodes[0]]
	for _, node := range f.nodes[1:] {
		other := f.replicas[node]
		if !first.Clock.Equal(other.Clock) {
			return false
		}
		if first.Speed != other.Speed || first.Armed != other.Armed || first.Ceiling != other.Ceiling {
			return false
		}
		if !first.Forces.Equal(other.Forces) {
			return false
		}
	}
	return true
}
