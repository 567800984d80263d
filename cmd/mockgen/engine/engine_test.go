package engine

import (
	"path/filepath"
	"testing"

	"bottleneck-mcp/internal/stats"
	"bottleneck-mcp/internal/tasklog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: ScenarioSpiky, Count: 50, Seed: 7}
	assert.Equal(t, Generate(cfg), Generate(cfg))

	other := cfg
	other.Seed = 8
	assert.NotEqual(t, Generate(cfg), Generate(other))
}

func TestGenerate_ValidRecords(t *testing.T) {
	for _, scenario := range []string{ScenarioSteady, ScenarioCongested, ScenarioSpiky} {
		for _, dist := range []string{"uniform", "weibull"} {
			t.Run(scenario+"/"+dist, func(t *testing.T) {
				tasks := Generate(GeneratorConfig{Scenario: scenario, Distribution: dist, Count: 100, Seed: 1})
				require.Len(t, tasks, 100)
				for i, task := range tasks {
					assert.Equal(t, i+1, task.ID)
					assert.GreaterOrEqual(t, task.QueueWaitTime, 0.0)
					assert.GreaterOrEqual(t, task.ProcessStepDuration, 0.0)
				}
			})
		}
	}
}

func TestGenerate_CongestedQueuesGrow(t *testing.T) {
	tasks := Generate(GeneratorConfig{Scenario: ScenarioCongested, Count: 200, Seed: 3})

	head, err := stats.CalculateBaseline(tasks[:50])
	require.NoError(t, err)
	tail, err := stats.CalculateBaseline(tasks[150:])
	require.NoError(t, err)

	assert.Greater(t, tail.AvgQueueTime, head.AvgQueueTime+10)
}

func TestGeneratorConfig_Validate(t *testing.T) {
	assert.NoError(t, GeneratorConfig{Scenario: ScenarioSteady, Count: 1}.Validate())
	assert.Error(t, GeneratorConfig{Scenario: "chaos", Count: 1}.Validate())
	assert.Error(t, GeneratorConfig{Scenario: ScenarioSteady, Distribution: "normal", Count: 1}.Validate())
	assert.Error(t, GeneratorConfig{Scenario: ScenarioSteady}.Validate())
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	tasks := Generate(GeneratorConfig{Scenario: ScenarioSteady, Count: 10, Seed: 1})
	require.NoError(t, Save(dir, "mock", tasks))

	loaded, err := tasklog.LoadFile(filepath.Join(dir, "mock.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, tasks, loaded)
}
