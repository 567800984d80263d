package analysis

import (
	"cmp"
	"slices"
	"strconv"

	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

// AnalyzeTask scores, classifies and annotates a single task against a baseline.
func AnalyzeTask(task stats.TaskRecord, baseline stats.Baseline, pol policy.Policy) BottleneckAnalysis {
	score := Score(task.QueueWaitTime, task.ProcessStepDuration, pol.Scoring)
	risk := Classify(score, pol.Scoring)

	return BottleneckAnalysis{
		TaskID:          task.ID,
		TotalTime:       task.TotalTime(),
		QueueWaitTime:   task.QueueWaitTime,
		ProcessTime:     task.ProcessStepDuration,
		BottleneckScore: score,
		RiskLevel:       risk,
		Insights:        GenerateInsights(task, baseline.AvgQueueTime, baseline.AvgProcessTime, pol.Insights),
		ActionableSteps: GenerateActionableSteps(task, baseline.AvgQueueTime, baseline.AvgProcessTime, risk, pol.Insights),
	}
}

// Analyze runs the first pipeline stage: per-task analysis sorted by descending
// score, plus the aggregate metrics of the whole collection.
func Analyze(tasks []stats.TaskRecord, pol policy.Policy) (Result, error) {
	baseline, err := stats.CalculateBaseline(tasks)
	if err != nil {
		return Result{}, err
	}

	bottlenecks := make([]BottleneckAnalysis, len(tasks))
	for i, task := range tasks {
		bottlenecks[i] = AnalyzeTask(task, baseline, pol)
	}

	// Stable so ties keep input order across runs.
	slices.SortStableFunc(bottlenecks, func(a, b BottleneckAnalysis) int {
		return cmp.Compare(b.BottleneckScore, a.BottleneckScore)
	})

	return Result{
		Bottlenecks: bottlenecks,
		Metrics:     Aggregate(bottlenecks, baseline),
		Baseline:    baseline,
	}, nil
}

// Aggregate derives the run's headline metrics. It is order-independent and must be
// recomputed whenever the analysis collection changes.
func Aggregate(bottlenecks []BottleneckAnalysis, baseline stats.Baseline) AggregateMetrics {
	var critical, highRisk int
	var scoreSum float64
	for _, b := range bottlenecks {
		switch b.RiskLevel {
		case RiskCritical:
			critical++
			highRisk++
		case RiskHigh:
			highRisk++
		}
		scoreSum += b.BottleneckScore
	}

	avgScore := scoreSum / float64(len(bottlenecks))

	return AggregateMetrics{
		AvgQueueTime:        stats.Round1(baseline.AvgQueueTime),
		AvgProcessTime:      stats.Round1(baseline.AvgProcessTime),
		AvgTotalTime:        stats.Round1(baseline.AvgTotalTime),
		TotalTasks:          baseline.Count,
		CriticalBottlenecks: critical,
		HighRiskTasks:       highRisk,
		EfficiencyScore:     stats.RoundInt(100 - avgScore),
	}
}

// CountByRisk tallies analyses per risk tier.
func CountByRisk(bottlenecks []BottleneckAnalysis) map[RiskLevel]int {
	counts := map[RiskLevel]int{RiskLow: 0, RiskMedium: 0, RiskHigh: 0, RiskCritical: 0}
	for _, b := range bottlenecks {
		counts[b.RiskLevel]++
	}
	return counts
}

// ExportHeader is the column layout produced by Rows.
var ExportHeader = []string{"TaskID", "QueueWaitTime", "ProcessTime", "TotalTime", "BottleneckScore", "RiskLevel"}

// Rows flattens analyses into export rows (header first). The analyses are read only.
func Rows(bottlenecks []BottleneckAnalysis) [][]string {
	rows := make([][]string, 0, len(bottlenecks)+1)
	rows = append(rows, slices.Clone(ExportHeader))
	for _, b := range bottlenecks {
		rows = append(rows, []string{
			strconv.Itoa(b.TaskID),
			formatMinutes(b.QueueWaitTime),
			formatMinutes(b.ProcessTime),
			formatMinutes(b.TotalTime),
			strconv.FormatFloat(b.BottleneckScore, 'f', 2, 64),
			string(b.RiskLevel),
		})
	}
	return rows
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
