package stats

import "errors"

// ErrEmptyDataset is returned by every stage that needs at least one task to form a baseline.
var ErrEmptyDataset = errors.New("task collection is empty")

// TaskRecord is a single unit of work as supplied by the task source.
// Durations are in minutes. The pipeline never mutates records it is given.
type TaskRecord struct {
	ID                  int     `json:"task_id"`
	QueueWaitTime       float64 `json:"queue_wait_time"`
	ProcessStepDuration float64 `json:"process_step_duration"`
}

// TotalTime is queue wait plus processing.
func (t TaskRecord) TotalTime() float64 {
	return t.QueueWaitTime + t.ProcessStepDuration
}

// Baseline holds the dataset means every downstream stage normalizes against.
type Baseline struct {
	AvgQueueTime   float64 `json:"avg_queue_time"`
	AvgProcessTime float64 `json:"avg_process_time"`
	AvgTotalTime   float64 `json:"avg_total_time"`
	Count          int     `json:"count"`
}
