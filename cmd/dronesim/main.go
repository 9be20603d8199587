// Command dronesim exercises the merge engine with a small fleet of drone
// telemetry replicas: concurrent local updates, random pairwise gossip, and
// a convergence report.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sanity-io/litter"

	"fieldmerge/merge"
	"fieldmerge/rules"
)

// Drone is one replica of a drone's shared state.
type Drone struct {
	merge.Replica
	Speed     float64            `merge:"max"`
	Armed     bool               `merge:"or"`
	Forces    mapset.Set[string] `merge:"union"`
	Waypoints []string           `merge:"uappend"`
	Pilot     string
	DebugInfo string `merge:"-"`
}

type config struct {
	// Comma-separated node IDs, e.g. "alpha,beta,gamma"
	Nodes  string `envconfig:"NODES" default:"alpha,beta,gamma"`
	Rounds int    `envconfig:"ROUNDS" default:"8"`
	Seed   int64  `envconfig:"SEED" default:"1"`
}

// parseNodes parses a comma-separated list of node IDs.
func parseNodes(nodesStr string) ([]string, error) {
	parts := strings.Split(nodesStr, ",")
	nodes := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nodes = append(nodes, part)
	}
	if len(nodes) < 2 {
		return nil, fmt.Errorf("need at least two nodes, got %q", nodesStr)
	}
	return nodes, nil
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var cfg config
	envconfig.MustProcess("", &cfg)

	nodes, err := parseNodes(cfg.Nodes)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid NODES")
	}

	engine, err := merge.NewEngine[*Drone]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}
	// commander's reports about the pilot beat everyone else's
	if err := merge.SetRule(engine, "Pilot", rules.NodeWins[string](nodes[0])); err != nil {
		logger.Fatal().Err(err).Msg("failed to bind pilot rule")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	replicas := make(map[string]*Drone, len(nodes))
	for _, node := range nodes {
		replicas[node] = &Drone{Forces: mapset.NewSet[string](), DebugInfo: "replica@" + node}
	}

	logger.Info().Strs("nodes", nodes).Int("rounds", cfg.Rounds).Msg("starting simulation")

	for round := 0; round < cfg.Rounds; round++ {
		// every node makes an independent local update
		for _, node := range nodes {
			err := merge.Update(replicas[node], node, func(d *Drone) error {
				d.Speed = float64(rng.Intn(120))
				d.Forces.Add(node)
				d.Waypoints = append(d.Waypoints, fmt.Sprintf("wp-%s-%d", node, round))
				if rng.Intn(3) == 0 {
					d.Armed = true
				}
				d.Pilot = "pilot-" + node
				return nil
			})
			if err != nil {
				logger.Fatal().Err(err).Str("node", node).Msg("update failed")
			}
		}

		// each node pulls from one random peer
		for _, node := range nodes {
			peer := nodes[rng.Intn(len(nodes))]
			if peer == node {
				continue
			}
			engine.MergeInto(replicas[node], replicas[peer])
			logger.Debug().Str("node", node).Str("peer", peer).
				Stringer("clock", replicas[node].Clock).Msg("gossip")
		}
	}

	// anti-entropy sweep so every update reaches every replica
	for i := 0; i < 2; i++ {
		for _, a := range nodes {
			for _, b := range nodes {
				if a != b {
					engine.MergeInto(replicas[a], replicas[b])
				}
			}
		}
	}

	converged := true
	first := replicas[nodes[0]]
	for _, node := range nodes[1:] {
		d := replicas[node]
		if !d.Clock.Equal(first.Clock) || d.Speed != first.Speed ||
			d.Armed != first.Armed || !d.Forces.Equal(first.Forces) {
			converged = false
			logger.Error().Str("node", node).Stringer("clock", d.Clock).Msg("replica diverged")
		}
	}

	for _, node := range nodes {
		logger.Info().
			Str("node", node).
			Float64("speed", replicas[node].Speed).
			Bool("armed", replicas[node].Armed).
			Stringer("clock", replicas[node].Clock).
			Str("debug", replicas[node].DebugInfo).
			Msg("final state")
	}

	if !converged {
		logger.Fatal().Msg("fleet did not converge")
	}
	logger.Info().Msg("fleet converged")

	litter.Config.HidePrivateFields = true
	fmt.Println(litter.Sdump(struct {
		Speed     float64
		Armed     bool
		Forces    []string
		Waypoints []string
		Pilot     string
	}{
		Speed:     first.Speed,
		Armed:     first.Armed,
		Forces:    first.Forces.ToSlice(),
		Waypoints: first.Waypoints,
		Pilot:     first.Pilot,
	}))
}
