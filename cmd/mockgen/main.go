package main

import (
	"flag"
	"fmt"
	"os"

	"bottleneck-mcp/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", engine.ScenarioSteady, "Scenario to generate: steady, congested, spiky")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	outDir := flag.String("out", "./datasets", "Output directory for mock files")
	count := flag.Int("count", 200, "Number of tasks to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	id := flag.String("id", "", "Dataset ID (default: mock-<scenario>)")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	datasetID := *id
	if datasetID == "" {
		datasetID = "mock-" + cfg.Scenario
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *outDir)

	tasks := engine.Generate(cfg)
	if err := engine.Save(*outDir, datasetID, tasks); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
