package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottleneck-mcp/internal/simulation"
)

func writeTasks(t *testing.T) string {
	t.Helper()
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("LOGS_FOLDER", t.TempDir())
	t.Setenv("POLICY_FILE", "")

	path := filepath.Join(t.TempDir(), "tasks.csv")
	content := "task_id,queue_wait_time,process_step_duration\n1,10,20\n2,30,10\n3,5,5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestAnalyzeCommand_CSV(t *testing.T) {
	path := writeTasks(t)

	out := run(t, "analyze", path, "--format", "csv", "--top", "2")
	assert.Equal(t, "TaskID,QueueWaitTime,ProcessTime,TotalTime,BottleneckScore,RiskLevel\n"+
		"2,30,10,40,65.00,high\n"+
		"1,10,20,30,30.00,low\n", out)
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	path := writeTasks(t)

	var decoded analyzeOutput
	require.NoError(t, json.Unmarshal([]byte(run(t, "analyze", path, "--format", "json", "--top", "0")), &decoded))
	assert.Equal(t, 64, decoded.Metrics.EfficiencyScore)
	assert.Len(t, decoded.Bottlenecks, 3)
}

func TestSimulateCommand(t *testing.T) {
	path := writeTasks(t)

	var results []simulation.Result
	require.NoError(t, json.Unmarshal([]byte(run(t, "simulate", path, "--scenario", "conservative")), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "conservative", results[0].Scenario.ID)

	results = nil
	require.NoError(t, json.Unmarshal([]byte(run(t, "simulate", path, "--scenario", "")), &results))
	assert.Len(t, results, 4)
}
