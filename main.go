package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"npcplan/domain"
	"npcplan/metrics"
	"npcplan/scenario"
	"npcplan/tree"
)

const demoSteps = 8

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	runForestDemo()
}

// runForestDemo plays a greedy one-ply line through the forest scenario:
// each agent in turn proposes tasks through its behavior, builds a candidate
// node per task, deduplicates through the transposition table and commits to
// the highest-value candidate.
func runForestDemo() {
	forest := scenario.NewForest(6, 6, 2)
	forest.Plant(scenario.Point{X: 2, Y: 2}, 3)
	forest.Plant(scenario.Point{X: 3, Y: 2}, 2)
	forest.Plant(scenario.Point{X: 4, Y: 4}, 4)
	forest.AddAgent(1, scenario.Point{X: 0, Y: 2})
	forest.AddAgent(2, scenario.Point{X: 5, Y: 3})

	world := scenario.World{}
	table := tree.NewTable()
	collector := metrics.NewCollector()
	rng := rand.New(rand.NewSource(42))

	agents := []domain.AgentID{1, 2}
	diff := scenario.NewForestDiff()

	var line []tree.Handle // strong handles along the committed line
	for step := 0; step < demoSteps; step++ {
		for _, agent := range agents {
			view := domain.NewStateDiff(forest, diff)
			candidates := domain.CollectTasks(scenario.Lumberjack{}, view, agent)
			if len(candidates) == 0 {
				log.Info().Msgf("step %d: agent %d has no tasks", step, agent)
				continue
			}

			var best tree.Handle
			var bestValue domain.AgentValue
			for _, task := range candidates {
				next := task.(scenario.Task).Apply(view, agent)
				h := tree.New(world, forest, next, agent, map[domain.AgentID]domain.Task{agent: task})

				if existing, ok := table.Find(h.Node()); ok {
					collector.AddTranspositionHit()
					h.Release()
					h = existing
				} else {
					collector.AddTranspositionMiss()
					collector.AddNode(h.Node().Size(taskSize))
					table.Put(h)
				}

				value := h.Node().CurrentValue(agent)
				if best == (tree.Handle{}) || value > bestValue || (value == bestValue && rng.Intn(2) == 0) {
					if best != (tree.Handle{}) {
						best.Release()
					}
					best, bestValue = h, value
				} else {
					h.Release()
				}
			}

			diff = best.Node().Diff().(*scenario.ForestDiff)
			line = append(line, best)
			log.Info().Msgf("step %d: agent %d plays %s for value %.0f",
				step, agent, best.Node().Tasks()[agent], bestValue)
		}
	}

	// Prune the whole line and let the table notice.
	for _, h := range line {
		h.Release()
	}
	swept := table.Sweep()

	m := collector.Complete()
	log.Info().Msgf("constructed %d nodes (~%d bytes), %d transposition hits, %d misses, %d entries swept",
		m.Nodes, m.Bytes, m.TranspositionHits, m.TranspositionMisses, swept)
}

func taskSize(t domain.Task) uintptr {
	return t.Size()
}
