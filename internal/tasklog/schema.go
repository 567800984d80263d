package tasklog

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"bottleneck-mcp/internal/stats"
)

const (
	fieldTaskID  = "task_id"
	fieldQueue   = "queue_wait_time"
	fieldProcess = "process_step_duration"
)

// fieldAliases maps a folded column or key name onto its canonical field.
// Folding lowercases and drops separators, so "TaskID", "task_id" and
// "Task Id" all resolve to task_id.
var fieldAliases = map[string]string{
	"taskid":              fieldTaskID,
	"id":                  fieldTaskID,
	"queuewaittime":       fieldQueue,
	"queuetime":           fieldQueue,
	"processstepduration": fieldProcess,
	"processtime":         fieldProcess,
}

func canonicalField(name string) (string, bool) {
	folded := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	f, ok := fieldAliases[folded]
	return f, ok
}

func ptr[T any](v T) *T { return &v }

// RecordSchema describes one task record in its canonical form.
var RecordSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{fieldTaskID, fieldQueue, fieldProcess},
	Properties: map[string]*jsonschema.Schema{
		fieldTaskID:  {Type: "integer", Description: "Task identifier"},
		fieldQueue:   {Type: "number", Minimum: ptr(0.0), Description: "Minutes spent waiting before processing"},
		fieldProcess: {Type: "number", Minimum: ptr(0.0), Description: "Minutes spent in the processing step"},
	},
}

var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return RecordSchema.Resolve(nil)
})

// normalize rewrites known aliases onto canonical keys and drops the rest.
func normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, 3)
	for k, v := range raw {
		if f, ok := canonicalField(k); ok {
			out[f] = v
		}
	}
	return out
}

// toRecord validates a canonical map and converts it into a TaskRecord.
func toRecord(m map[string]any) (stats.TaskRecord, error) {
	rs, err := resolvedSchema()
	if err != nil {
		return stats.TaskRecord{}, fmt.Errorf("resolve record schema: %w", err)
	}
	if err := rs.Validate(m); err != nil {
		return stats.TaskRecord{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	id, _ := m[fieldTaskID].(float64)
	queue, _ := m[fieldQueue].(float64)
	process, _ := m[fieldProcess].(float64)

	// The schema minimum lets NaN through and Inf passes it.
	for field, v := range map[string]float64{fieldQueue: queue, fieldProcess: process} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return stats.TaskRecord{}, fmt.Errorf("%w: %s must be a finite number", ErrInvalidRecord, field)
		}
	}

	return stats.TaskRecord{ID: int(id), QueueWaitTime: queue, ProcessStepDuration: process}, nil
}
