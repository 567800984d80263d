package analysis

import "bottleneck-mcp/internal/stats"

// RiskLevel is the four-tier classification derived from a bottleneck score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// StepPriority ranks an actionable step.
type StepPriority string

const (
	PriorityImmediate StepPriority = "immediate"
	PriorityHigh      StepPriority = "high"
	PriorityMedium    StepPriority = "medium"
	PriorityLow       StepPriority = "low"
)

// ActionableStep is a single remediation action for one task.
type ActionableStep struct {
	Action         string       `json:"action"`
	Priority       StepPriority `json:"priority"`
	ExpectedImpact string       `json:"expectedImpact"`
}

// BottleneckAnalysis is the scored view of one TaskRecord.
type BottleneckAnalysis struct {
	TaskID          int              `json:"taskId"`
	TotalTime       float64          `json:"totalTime"`
	QueueWaitTime   float64          `json:"queueWaitTime"`
	ProcessTime     float64          `json:"processTime"`
	BottleneckScore float64          `json:"bottleneckScore"`
	RiskLevel       RiskLevel        `json:"riskLevel"`
	Insights        []string         `json:"insights"`
	ActionableSteps []ActionableStep `json:"actionableSteps"`
}

// AggregateMetrics summarizes one analysis run.
type AggregateMetrics struct {
	AvgQueueTime        float64 `json:"avgQueueTime"`
	AvgProcessTime      float64 `json:"avgProcessTime"`
	AvgTotalTime        float64 `json:"avgTotalTime"`
	TotalTasks          int     `json:"totalTasks"`
	CriticalBottlenecks int     `json:"criticalBottlenecks"`
	HighRiskTasks       int     `json:"highRiskTasks"`   // high + critical
	EfficiencyScore     int     `json:"efficiencyScore"` // 100 - mean score
}

// Result is the output of the first pipeline stage.
type Result struct {
	Bottlenecks []BottleneckAnalysis `json:"bottlenecks"` // descending by score
	Metrics     AggregateMetrics     `json:"metrics"`
	Baseline    stats.Baseline       `json:"baseline"`
}

// Top returns at most n analyses from the head of the sorted collection.
func (r Result) Top(n int) []BottleneckAnalysis {
	if n <= 0 || n >= len(r.Bottlenecks) {
		return r.Bottlenecks
	}
	return r.Bottlenecks[:n]
}

// Find looks up the analysis for a task id.
func (r Result) Find(taskID int) (BottleneckAnalysis, bool) {
	for _, b := range r.Bottlenecks {
		if b.TaskID == taskID {
			return b, true
		}
	}
	return BottleneckAnalysis{}, false
}
