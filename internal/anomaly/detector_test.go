package anomaly

import (
	"testing"
	"time"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// quietMetrics sets every baseline high enough that no detector fires by accident.
func quietMetrics() analysis.AggregateMetrics {
	return analysis.AggregateMetrics{AvgQueueTime: 1000, AvgProcessTime: 1000, AvgTotalTime: 2000}
}

func repeat(n int, startID int, queue, process float64) []stats.TaskRecord {
	tasks := make([]stats.TaskRecord, n)
	for i := range tasks {
		tasks[i] = stats.TaskRecord{ID: startID + i, QueueWaitTime: queue, ProcessStepDuration: process}
	}
	return tasks
}

func TestDetect_IdleTimeThreshold(t *testing.T) {
	p := policy.Default().Anomalies
	m := quietMetrics()
	m.AvgQueueTime = 10 // threshold 18

	above := []stats.TaskRecord{{ID: 1, QueueWaitTime: 19, ProcessStepDuration: 5}, {ID: 2, QueueWaitTime: 5, ProcessStepDuration: 5}}
	got, err := Detect(above, m, p, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeIdleTime, got[0].Type)
	assert.Equal(t, "Excessive Idle Time", got[0].Title)
	assert.Equal(t, []int{1}, got[0].TaskIDs)
	assert.Equal(t, SeverityInfo, got[0].Severity)
	assert.Equal(t, 18.0, got[0].Threshold)
	assert.Equal(t, 19.0, got[0].ActualValue)
	assert.Equal(t, "1 tasks exceed idle time threshold of 18m", got[0].Message)
	assert.Equal(t, fixedNow, got[0].DetectedAt)

	below := []stats.TaskRecord{{ID: 1, QueueWaitTime: 17, ProcessStepDuration: 5}, {ID: 2, QueueWaitTime: 5, ProcessStepDuration: 5}}
	got, err = Detect(below, m, p, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetect_IdleTimeSeverity(t *testing.T) {
	p := policy.Default().Anomalies
	m := quietMetrics()
	m.AvgQueueTime = 10

	tests := []struct {
		name     string
		count    int
		expected Severity
	}{
		{"FiveIsInfo", 5, SeverityInfo},
		{"SixIsWarning", 6, SeverityWarning},
		{"TenIsWarning", 10, SeverityWarning},
		{"ElevenIsCritical", 11, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := repeat(tt.count, 1, 30, 1)
			got, err := Detect(tasks, m, p, fixedNow)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected, got[0].Severity)
			assert.Len(t, got[0].TaskIDs, tt.count)
		})
	}
}

func TestDetect_VolumeSpikeUsesFirstTwentyTasks(t *testing.T) {
	p := policy.Default().Anomalies
	m := quietMetrics()
	m.AvgTotalTime = 50 // threshold 65

	tasks := append(repeat(20, 1, 50, 50), repeat(10, 21, 0, 0)...)
	got, err := Detect(tasks, m, p, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, TypeVolumeSpike, a.Type)
	assert.Equal(t, "Volume Spike", a.Title)
	assert.Equal(t, SeverityWarning, a.Severity)
	assert.Len(t, a.TaskIDs, 20)
	assert.Equal(t, 1, a.TaskIDs[0])
	assert.Equal(t, 20, a.TaskIDs[19])
	assert.Equal(t, 100.0, a.ActualValue)
	assert.Equal(t, 65.0, a.Threshold)
	assert.Equal(t, "Volume spike detected in first 20 tasks, processing times 30% above average", a.Message)

	// Same values with the heavy tasks at the tail: the window sees nothing.
	reordered := append(repeat(20, 1, 0, 0), repeat(20, 21, 50, 50)...)
	got, err = Detect(reordered, m, p, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetect_ReworkLoop(t *testing.T) {
	p := policy.Default().Anomalies
	m := quietMetrics()
	m.AvgProcessTime = 20 // threshold 30

	single := []stats.TaskRecord{{ID: 1, ProcessStepDuration: 45}, {ID: 2, ProcessStepDuration: 10}}
	got, err := Detect(single, m, p, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, got, "a single candidate is not a loop")

	pair := []stats.TaskRecord{{ID: 1, ProcessStepDuration: 45}, {ID: 2, ProcessStepDuration: 31}, {ID: 3, ProcessStepDuration: 30}}
	got, err = Detect(pair, m, p, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeReworkLoop, got[0].Type)
	assert.Equal(t, "Potential Rework Loop", got[0].Title)
	assert.Equal(t, SeverityWarning, got[0].Severity)
	assert.Equal(t, []int{1, 2}, got[0].TaskIDs)
	assert.Equal(t, 45.0, got[0].ActualValue)
	assert.Equal(t, "2 tasks show potential rework patterns (process time > 30m)", got[0].Message)

	many := repeat(9, 1, 0, 40)
	got, err = Detect(many, m, p, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityCritical, got[0].Severity)
}

func TestDetect_SortedBySeverity(t *testing.T) {
	p := policy.Default().Anomalies
	m := analysis.AggregateMetrics{AvgQueueTime: 10, AvgProcessTime: 10, AvgTotalTime: 10}

	// Task 1 is idle (info); the first 20 tasks spike volume (warning);
	// 9 tasks carry long processing (critical rework).
	tasks := []stats.TaskRecord{{ID: 1, QueueWaitTime: 19, ProcessStepDuration: 0}}
	tasks = append(tasks, repeat(9, 2, 0, 40)...)
	tasks = append(tasks, repeat(10, 11, 0, 0)...)

	got, err := Detect(tasks, m, p, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, SeverityCritical, got[0].Severity)
	assert.Equal(t, TypeReworkLoop, got[0].Type)
	assert.Equal(t, SeverityWarning, got[1].Severity)
	assert.Equal(t, TypeVolumeSpike, got[1].Type)
	assert.Equal(t, SeverityInfo, got[2].Severity)
	assert.Equal(t, TypeIdleTime, got[2].Type)
}

func TestDetect_NeverProducesSkippedValidation(t *testing.T) {
	tasks := append(repeat(30, 1, 100, 100), repeat(30, 31, 0, 0)...)
	res, err := analysis.Analyze(tasks, policy.Default())
	require.NoError(t, err)

	got, err := Detect(tasks, res.Metrics, policy.Default().Anomalies, fixedNow)
	require.NoError(t, err)
	for _, a := range got {
		assert.NotEqual(t, TypeSkippedValidation, a.Type)
	}
}

func TestDetect_Empty(t *testing.T) {
	_, err := Detect(nil, quietMetrics(), policy.Default().Anomalies, fixedNow)
	assert.ErrorIs(t, err, stats.ErrEmptyDataset)
}

func TestDetect_AfterAnalyze(t *testing.T) {
	tasks := []stats.TaskRecord{
		{ID: 1, QueueWaitTime: 10, ProcessStepDuration: 20},
		{ID: 2, QueueWaitTime: 30, ProcessStepDuration: 10},
		{ID: 3, QueueWaitTime: 5, ProcessStepDuration: 5},
	}
	res, err := analysis.Analyze(tasks, policy.Default())
	require.NoError(t, err)

	got, err := Detect(tasks, res.Metrics, policy.Default().Anomalies, fixedNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeIdleTime, got[0].Type)
	assert.Equal(t, []int{2}, got[0].TaskIDs)
	assert.Equal(t, "1 tasks exceed idle time threshold of 27m", got[0].Message)
}

func TestFilterAndSummarize(t *testing.T) {
	anomalies := []Anomaly{
		{ID: "a", Type: TypeReworkLoop, Severity: SeverityCritical},
		{ID: "b", Type: TypeVolumeSpike, Severity: SeverityWarning},
		{ID: "c", Type: TypeIdleTime, Severity: SeverityInfo},
	}

	all := Filter(anomalies, AllAlerts())
	assert.Len(t, all, 3)
	assert.Equal(t, Summary{Total: 3, Critical: 1, Warning: 1, Info: 1}, Summarize(all))

	cfg := AllAlerts()
	cfg.ReworkLoop = false
	filtered := Filter(anomalies, cfg)
	require.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].ID)
	assert.Equal(t, Summary{Total: 2, Warning: 1, Info: 1}, Summarize(filtered))

	assert.Len(t, anomalies, 3, "input must be left intact")
}

func TestType_Label(t *testing.T) {
	assert.Equal(t, "Excessive Idle Time", TypeIdleTime.Label())
	assert.Equal(t, "Skipped Validation", TypeSkippedValidation.Label())
}

func TestAlertsFor(t *testing.T) {
	cfg, err := AlertsFor(nil)
	require.NoError(t, err)
	assert.Equal(t, AllAlerts(), cfg)

	cfg, err = AlertsFor([]string{"idle_time", "rework_loop"})
	require.NoError(t, err)
	assert.True(t, cfg.Enabled(TypeIdleTime))
	assert.True(t, cfg.Enabled(TypeReworkLoop))
	assert.False(t, cfg.Enabled(TypeVolumeSpike))

	_, err = AlertsFor([]string{"meltdown"})
	assert.Error(t, err)
}
