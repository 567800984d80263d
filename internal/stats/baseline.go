package stats

// CalculateBaseline computes the mean queue, process and total time of a task collection.
// The means are unrounded; rounding is a presentation concern of AggregateMetrics.
func CalculateBaseline(tasks []TaskRecord) (Baseline, error) {
	if len(tasks) == 0 {
		return Baseline{}, ErrEmptyDataset
	}

	var queueSum, processSum float64
	for _, t := range tasks {
		queueSum += t.QueueWaitTime
		processSum += t.ProcessStepDuration
	}

	n := float64(len(tasks))
	avgQueue := queueSum / n
	avgProcess := processSum / n

	return Baseline{
		AvgQueueTime:   avgQueue,
		AvgProcessTime: avgProcess,
		AvgTotalTime:   avgQueue + avgProcess,
		Count:          len(tasks),
	}, nil
}

// TotalTimes extracts queue+process per task, preserving input order.
func TotalTimes(tasks []TaskRecord) []float64 {
	out := make([]float64, len(tasks))
	for i, t := range tasks {
		out[i] = t.TotalTime()
	}
	return out
}
