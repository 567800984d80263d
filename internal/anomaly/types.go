package anomaly

import (
	"fmt"
	"time"
)

// Type names a detected pattern.
type Type string

const (
	TypeIdleTime    Type = "idle_time"
	TypeVolumeSpike Type = "volume_spike"
	TypeReworkLoop  Type = "rework_loop"
	// TypeSkippedValidation is part of the alert schema but no detector produces it yet.
	TypeSkippedValidation Type = "skipped_validation"
)

// Label returns the human-readable alert title.
func (t Type) Label() string {
	switch t {
	case TypeIdleTime:
		return "Excessive Idle Time"
	case TypeReworkLoop:
		return "Potential Rework Loop"
	case TypeSkippedValidation:
		return "Skipped Validation"
	case TypeVolumeSpike:
		return "Volume Spike"
	default:
		return string(t)
	}
}

// Severity of an anomaly.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// rank orders severities most-severe first.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Anomaly is one threshold-breaching pattern over the task collection.
type Anomaly struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Severity    Severity  `json:"severity"`
	TaskIDs     []int     `json:"taskIds"`
	Message     string    `json:"message"`
	Threshold   float64   `json:"threshold"`
	ActualValue float64   `json:"actualValue"`
	DetectedAt  time.Time `json:"timestamp"` // wall-clock metadata only
}

// AlertConfig toggles which anomaly types are surfaced. The zero value hides
// everything; use AllAlerts for the default.
type AlertConfig struct {
	IdleTime          bool `json:"idle_time"`
	ReworkLoop        bool `json:"rework_loop"`
	VolumeSpike       bool `json:"volume_spike"`
	SkippedValidation bool `json:"skipped_validation"`
}

// AllAlerts enables every anomaly type.
func AllAlerts() AlertConfig {
	return AlertConfig{IdleTime: true, ReworkLoop: true, VolumeSpike: true, SkippedValidation: true}
}

// Enabled reports whether the given type passes the filter.
func (c AlertConfig) Enabled(t Type) bool {
	switch t {
	case TypeIdleTime:
		return c.IdleTime
	case TypeReworkLoop:
		return c.ReworkLoop
	case TypeVolumeSpike:
		return c.VolumeSpike
	case TypeSkippedValidation:
		return c.SkippedValidation
	default:
		return true
	}
}

// Summary counts the anomalies that survived filtering.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// AlertsFor enables only the named types. An empty list enables everything.
func AlertsFor(types []string) (AlertConfig, error) {
	if len(types) == 0 {
		return AllAlerts(), nil
	}

	var cfg AlertConfig
	for _, name := range types {
		switch Type(name) {
		case TypeIdleTime:
			cfg.IdleTime = true
		case TypeReworkLoop:
			cfg.ReworkLoop = true
		case TypeVolumeSpike:
			cfg.VolumeSpike = true
		case TypeSkippedValidation:
			cfg.SkippedValidation = true
		default:
			return AlertConfig{}, fmt.Errorf("unknown anomaly type %q", name)
		}
	}
	return cfg, nil
}
