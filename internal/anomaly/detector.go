package anomaly

import (
	"fmt"
	"slices"
	"time"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

// detector inspects the collection and returns at most one anomaly.
type detector func(tasks []stats.TaskRecord, m analysis.AggregateMetrics, p policy.Anomalies, now time.Time) (Anomaly, bool)

var detectors = []detector{
	detectIdleTime,
	detectVolumeSpike,
	detectReworkLoop,
}

// Detect runs the second pipeline stage. It needs the metrics of a completed
// analysis run and the same task collection, in its original input order.
// The result is ordered critical, warning, info; ties keep detector order.
func Detect(tasks []stats.TaskRecord, metrics analysis.AggregateMetrics, p policy.Anomalies, now time.Time) ([]Anomaly, error) {
	if len(tasks) == 0 {
		return nil, stats.ErrEmptyDataset
	}

	anomalies := make([]Anomaly, 0, len(detectors))
	for _, d := range detectors {
		if a, ok := d(tasks, metrics, p, now); ok {
			anomalies = append(anomalies, a)
		}
	}

	slices.SortStableFunc(anomalies, func(a, b Anomaly) int {
		return a.Severity.rank() - b.Severity.rank()
	})
	return anomalies, nil
}

func detectIdleTime(tasks []stats.TaskRecord, m analysis.AggregateMetrics, p policy.Anomalies, now time.Time) (Anomaly, bool) {
	threshold := m.AvgQueueTime * p.IdleFactor

	var ids []int
	maxQueue := 0.0
	for _, t := range tasks {
		if t.QueueWaitTime > threshold {
			ids = append(ids, t.ID)
			if len(ids) == 1 || t.QueueWaitTime > maxQueue {
				maxQueue = t.QueueWaitTime
			}
		}
	}
	if len(ids) == 0 {
		return Anomaly{}, false
	}

	severity := SeverityInfo
	switch {
	case len(ids) > p.IdleCriticalCount:
		severity = SeverityCritical
	case len(ids) > p.IdleWarningCount:
		severity = SeverityWarning
	}

	return Anomaly{
		ID:          "anomaly-idle",
		Type:        TypeIdleTime,
		Title:       TypeIdleTime.Label(),
		Severity:    severity,
		TaskIDs:     ids,
		Message:     fmt.Sprintf("%d tasks exceed idle time threshold of %dm", len(ids), stats.RoundInt(threshold)),
		Threshold:   threshold,
		ActualValue: maxQueue,
		DetectedAt:  now,
	}, true
}

// detectVolumeSpike looks at a positional window over the head of the input,
// not a time window.
func detectVolumeSpike(tasks []stats.TaskRecord, m analysis.AggregateMetrics, p policy.Anomalies, now time.Time) (Anomaly, bool) {
	window := tasks[:min(p.VolumeWindow, len(tasks))]
	avgWindow := stats.Mean(stats.TotalTimes(window))
	threshold := m.AvgTotalTime * p.VolumeFactor

	if !(avgWindow > threshold) {
		return Anomaly{}, false
	}

	ids := make([]int, len(window))
	for i, t := range window {
		ids[i] = t.ID
	}

	return Anomaly{
		ID:       "anomaly-volume",
		Type:     TypeVolumeSpike,
		Title:    TypeVolumeSpike.Label(),
		Severity: SeverityWarning,
		TaskIDs:  ids,
		Message: fmt.Sprintf("Volume spike detected in first %d tasks, processing times %d%% above average",
			p.VolumeWindow, stats.RoundInt((p.VolumeFactor-1)*100)),
		Threshold:   threshold,
		ActualValue: avgWindow,
		DetectedAt:  now,
	}, true
}

func detectReworkLoop(tasks []stats.TaskRecord, m analysis.AggregateMetrics, p policy.Anomalies, now time.Time) (Anomaly, bool) {
	threshold := m.AvgProcessTime * p.ReworkFactor

	var ids []int
	maxProcess := 0.0
	for _, t := range tasks {
		if t.ProcessStepDuration > threshold {
			ids = append(ids, t.ID)
			if len(ids) == 1 || t.ProcessStepDuration > maxProcess {
				maxProcess = t.ProcessStepDuration
			}
		}
	}
	if len(ids) < p.ReworkMinCount {
		return Anomaly{}, false
	}

	severity := SeverityWarning
	if len(ids) > p.ReworkCriticalCount {
		severity = SeverityCritical
	}

	return Anomaly{
		ID:          "anomaly-rework",
		Type:        TypeReworkLoop,
		Title:       TypeReworkLoop.Label(),
		Severity:    severity,
		TaskIDs:     ids,
		Message:     fmt.Sprintf("%d tasks show potential rework patterns (process time > %dm)", len(ids), stats.RoundInt(threshold)),
		Threshold:   threshold,
		ActualValue: maxProcess,
		DetectedAt:  now,
	}, true
}

// Filter drops anomaly types disabled in cfg. The input is not modified.
func Filter(anomalies []Anomaly, cfg AlertConfig) []Anomaly {
	out := make([]Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		if cfg.Enabled(a.Type) {
			out = append(out, a)
		}
	}
	return out
}

// Summarize counts anomalies per severity.
func Summarize(anomalies []Anomaly) Summary {
	s := Summary{Total: len(anomalies)}
	for _, a := range anomalies {
		switch a.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warning++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}
