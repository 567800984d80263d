package forecast

import (
	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

// Trend is the direction a metric is expected to move.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Prediction is a short-horizon projection of one headline metric.
// Confidence is fixed per metric, not derived from the data.
type Prediction struct {
	Metric         string  `json:"metric"`
	CurrentValue   float64 `json:"currentValue"`
	PredictedValue float64 `json:"predictedValue"`
	Change         float64 `json:"change"` // signed percent
	Trend          Trend   `json:"trend"`
	Confidence     int     `json:"confidence"`
	Timeframe      string  `json:"timeframe"`
}

// Predict derives the four heuristic predictions from the aggregate metrics.
// The bottleneck list is accepted for interface parity; every ratio it could
// contribute is already carried by the metrics.
func Predict(m analysis.AggregateMetrics, _ []analysis.BottleneckAnalysis, p policy.Forecast) ([]Prediction, error) {
	if m.TotalTasks == 0 {
		return nil, stats.ErrEmptyDataset
	}

	criticalRatio := float64(m.CriticalBottlenecks) / float64(m.TotalTasks)

	queueTrend, queuePct := TrendStable, p.QueueStablePct
	switch {
	case m.AvgQueueTime > p.QueueUpAbove:
		queueTrend, queuePct = TrendUp, p.QueueUpPct
	case m.AvgQueueTime < p.QueueDownBelow:
		queueTrend, queuePct = TrendDown, p.QueueDownPct
	}

	processTrend, processPct := TrendStable, p.ProcessStablePct
	if m.AvgProcessTime > p.ProcessUpAbove {
		processTrend, processPct = TrendUp, p.ProcessUpPct
	}

	criticalTrend := TrendStable
	if criticalRatio > p.CriticalTrendRatio {
		criticalTrend = TrendUp
	}

	efficiencyTrend, efficiencyDelta := TrendDown, p.EfficiencyDown
	if m.EfficiencyScore > p.EfficiencyPivot {
		efficiencyTrend, efficiencyDelta = TrendUp, p.EfficiencyUp
	}
	predictedEfficiency := max(0, min(100, m.EfficiencyScore+efficiencyDelta))

	return []Prediction{
		{
			Metric:         "Queue Wait Time",
			CurrentValue:   m.AvgQueueTime,
			PredictedValue: stats.Round1(m.AvgQueueTime * (1 + queuePct/100)),
			Change:         queuePct,
			Trend:          queueTrend,
			Confidence:     p.Confidence.Queue,
			Timeframe:      p.Timeframe,
		},
		{
			Metric:         "Process Duration",
			CurrentValue:   m.AvgProcessTime,
			PredictedValue: stats.Round1(m.AvgProcessTime * (1 + processPct/100)),
			Change:         processPct,
			Trend:          processTrend,
			Confidence:     p.Confidence.Process,
			Timeframe:      p.Timeframe,
		},
		{
			Metric:         "Critical Bottlenecks",
			CurrentValue:   float64(m.CriticalBottlenecks),
			PredictedValue: stats.Round(float64(m.CriticalBottlenecks) * (1 + criticalRatio*p.CriticalGrowth)),
			Change:         stats.Round(criticalRatio * p.CriticalGrowth * 100),
			Trend:          criticalTrend,
			Confidence:     p.Confidence.Critical,
			Timeframe:      p.Timeframe,
		},
		{
			Metric:         "Efficiency Score",
			CurrentValue:   float64(m.EfficiencyScore),
			PredictedValue: float64(predictedEfficiency),
			Change:         float64(efficiencyDelta),
			Trend:          efficiencyTrend,
			Confidence:     p.Confidence.Efficiency,
			Timeframe:      p.Timeframe,
		},
	}, nil
}
