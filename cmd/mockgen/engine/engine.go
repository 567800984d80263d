package engine

import (
	"fmt"
	"math"
	"math/rand"

	"bottleneck-mcp/internal/stats"
	"bottleneck-mcp/internal/tasklog"
)

// Scenarios understood by Generate.
const (
	ScenarioSteady    = "steady"
	ScenarioCongested = "congested"
	ScenarioSpiky     = "spiky"
)

type GeneratorConfig struct {
	Scenario     string
	Distribution string // "uniform" or "weibull"
	Count        int
	Seed         int64
}

// Validate rejects configurations Generate cannot honour.
func (c GeneratorConfig) Validate() error {
	switch c.Scenario {
	case ScenarioSteady, ScenarioCongested, ScenarioSpiky:
	default:
		return fmt.Errorf("unknown scenario %q (want steady, congested or spiky)", c.Scenario)
	}
	switch c.Distribution {
	case "", "uniform", "weibull":
	default:
		return fmt.Errorf("unknown distribution %q (want uniform or weibull)", c.Distribution)
	}
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}
	return nil
}

// Generate synthesizes task records. The same config always yields the same tasks.
func Generate(cfg GeneratorConfig) []stats.TaskRecord {
	rng := rand.New(rand.NewSource(cfg.Seed))
	tasks := make([]stats.TaskRecord, cfg.Count)

	for i := range tasks {
		ratio := float64(i) / float64(cfg.Count)

		// 1. Baseline sample
		var queue, process float64
		if cfg.Distribution == "weibull" {
			queue = weibullSample(rng, 1.5, 14)
			process = weibullSample(rng, 2.5, 35)
		} else {
			queue = 5 + rng.Float64()*15
			process = 20 + rng.Float64()*25
		}

		// 2. Scenario shaping
		switch cfg.Scenario {
		case ScenarioCongested:
			// Queues build up steadily across the batch
			queue += 30 * ratio
			process *= 1 + 0.3*ratio
		case ScenarioSpiky:
			if i < 20 {
				queue *= 1.8
				process *= 1.5
			}
			if rng.Float64() < 0.15 {
				queue += 30 + rng.Float64()*30 // Controlled black swans
			}
			if rng.Float64() < 0.1 {
				process += 25 + rng.Float64()*20
			}
		}

		tasks[i] = stats.TaskRecord{
			ID:                  i + 1,
			QueueWaitTime:       stats.Round1(queue),
			ProcessStepDuration: stats.Round1(process),
		}
	}

	return tasks
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes the tasks to <outDir>/<datasetID>.jsonl.
func Save(outDir, datasetID string, tasks []stats.TaskRecord) error {
	store := tasklog.NewStore()
	store.Put(datasetID, "mockgen", tasks)
	return store.Save(outDir, datasetID)
}
