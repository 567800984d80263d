package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/anomaly"
	"bottleneck-mcp/internal/stats"
	"bottleneck-mcp/internal/visuals"
)

const (
	defaultTopLimit = 10
	skewRatio       = 1.5
)

// BottleneckReport is the payload of analyze_bottlenecks.
type BottleneckReport struct {
	Metrics          analysis.AggregateMetrics     `json:"metrics"`
	RiskDistribution map[analysis.RiskLevel]int    `json:"riskDistribution"`
	MedianTotalTime  float64                       `json:"medianTotalTime"`
	TopBottlenecks   []analysis.BottleneckAnalysis `json:"topBottlenecks"`
}

func (s *Server) handleAnalyzeBottlenecks(_ context.Context, in AnalyzeInput) (any, error) {
	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}

	res := run.Result
	report := BottleneckReport{
		Metrics:          res.Metrics,
		RiskDistribution: analysis.CountByRisk(res.Bottlenecks),
		TopBottlenecks:   res.Top(limit),
		MedianTotalTime:  stats.Round1(stats.CalculateMedianContinuous(stats.TotalTimes(run.Dataset.Tasks))),
	}

	var diagnostics []string
	if report.MedianTotalTime > 0 && res.Metrics.AvgTotalTime > skewRatio*report.MedianTotalTime {
		diagnostics = append(diagnostics, fmt.Sprintf(
			"Average total time (%.1fm) is well above the median (%.1fm): a few long tasks dominate the averages every other stage builds on.",
			res.Metrics.AvgTotalTime, report.MedianTotalTime))
	}

	var guidance []string
	if res.Metrics.CriticalBottlenecks > 0 {
		guidance = append(guidance, fmt.Sprintf("%d critical bottlenecks found. Use 'get_task_analysis' on the top task IDs for step-by-step remediation.", res.Metrics.CriticalBottlenecks))
	}
	guidance = append(guidance,
		"Scores above 100 are possible and mean the task exceeds both reference scales.",
		"Next: 'detect_anomalies' for systemic patterns or 'recommend_actions' for process-level changes.",
	)

	charts := s.charts(
		visuals.GenerateScoreChart(res.Bottlenecks, limit, run.Policy.Scoring.CriticalAt),
		visuals.GenerateRiskPie(report.RiskDistribution),
	)

	return WrapResponse(report, run.context(), diagnostics, guidance, charts), nil
}

// TaskReport is the payload of get_task_analysis.
type TaskReport struct {
	Analysis       analysis.BottleneckAnalysis `json:"analysis"`
	Rank           int                         `json:"rank"`
	AvgQueueTime   float64                     `json:"datasetAvgQueueTime"`
	AvgProcessTime float64                     `json:"datasetAvgProcessTime"`
}

func (s *Server) handleGetTaskAnalysis(_ context.Context, in TaskAnalysisInput) (any, error) {
	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	rank := 0
	for i, b := range run.Result.Bottlenecks {
		if b.TaskID == in.TaskID {
			rank = i + 1
			break
		}
	}
	b, ok := run.Result.Find(in.TaskID)
	if !ok {
		return nil, fmt.Errorf("task %d not found in dataset %q", in.TaskID, run.Dataset.ID)
	}

	report := TaskReport{
		Analysis:       b,
		Rank:           rank,
		AvgQueueTime:   run.Result.Metrics.AvgQueueTime,
		AvgProcessTime: run.Result.Metrics.AvgProcessTime,
	}
	return WrapResponse(report, run.context(), nil, []string{
		fmt.Sprintf("Task %d ranks #%d of %d by bottleneck score.", in.TaskID, rank, len(run.Result.Bottlenecks)),
	}, nil), nil
}

// AnomalyReport is the payload of detect_anomalies.
type AnomalyReport struct {
	Anomalies []anomaly.Anomaly `json:"anomalies"`
	Summary   anomaly.Summary   `json:"summary"`
}

func (s *Server) handleDetectAnomalies(_ context.Context, in DetectAnomaliesInput) (any, error) {
	alerts, err := anomaly.AlertsFor(in.Types)
	if err != nil {
		return nil, err
	}

	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	detected, err := anomaly.Detect(run.Dataset.Tasks, run.Result.Metrics, run.Policy.Anomalies, s.now())
	s.metrics.ObserveStage("detect", start)
	if err != nil {
		return nil, err
	}

	found := anomaly.Filter(detected, alerts)
	if found == nil {
		found = []anomaly.Anomaly{}
	}
	for _, a := range found {
		s.metrics.CountAnomaly(string(a.Type), string(a.Severity))
	}
	summary := anomaly.Summarize(found)
	log.Info().Str("dataset", run.Dataset.ID).Int("anomalies", summary.Total).Msg("Anomaly detection completed")

	diagnostics := []string{
		fmt.Sprintf("Volume spikes are checked over the first %d tasks in file order only.", run.Policy.Anomalies.VolumeWindow),
	}
	var guidance []string
	if summary.Critical > 0 {
		guidance = append(guidance, "Critical anomalies present. Address them before acting on forecasts.")
	}
	if summary.Total == 0 {
		guidance = append(guidance, "No anomalies detected with the current thresholds.")
	}

	return WrapResponse(AnomalyReport{Anomalies: found, Summary: summary}, run.context(), diagnostics, guidance, nil), nil
}
