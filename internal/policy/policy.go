package policy

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned when a policy fails validation.
var ErrInvalidPolicy = errors.New("invalid policy")

// Policy bundles every tunable constant used by the analytics pipeline.
// Stages receive it explicitly; nothing reads it from ambient state.
type Policy struct {
	Scoring         Scoring         `json:"scoring" yaml:"scoring" toml:"scoring"`
	Insights        Insights        `json:"insights" yaml:"insights" toml:"insights"`
	Anomalies       Anomalies       `json:"anomalies" yaml:"anomalies" toml:"anomalies"`
	Forecast        Forecast        `json:"forecast" yaml:"forecast" toml:"forecast"`
	Recommendations Recommendations `json:"recommendations" yaml:"recommendations" toml:"recommendations"`
	Simulation      Simulation      `json:"simulation" yaml:"simulation" toml:"simulation"`
}

// Scoring holds the reference scales, weights and risk tier boundaries.
type Scoring struct {
	QueueScale    float64 `json:"queue_scale" yaml:"queue_scale" toml:"queue_scale"`       // "typical" max queue minutes
	ProcessScale  float64 `json:"process_scale" yaml:"process_scale" toml:"process_scale"` // "typical" max process minutes
	QueueWeight   float64 `json:"queue_weight" yaml:"queue_weight" toml:"queue_weight"`
	ProcessWeight float64 `json:"process_weight" yaml:"process_weight" toml:"process_weight"`
	CriticalAt    float64 `json:"critical_at" yaml:"critical_at" toml:"critical_at"`
	HighAt        float64 `json:"high_at" yaml:"high_at" toml:"high_at"`
	MediumAt      float64 `json:"medium_at" yaml:"medium_at" toml:"medium_at"`
}

// Insights holds the per-task multipliers used by insight and step rules.
type Insights struct {
	QueueFactor     float64 `json:"queue_factor" yaml:"queue_factor" toml:"queue_factor"`
	ProcessFactor   float64 `json:"process_factor" yaml:"process_factor" toml:"process_factor"`
	TotalFactor     float64 `json:"total_factor" yaml:"total_factor" toml:"total_factor"`
	QueueSavings    float64 `json:"queue_savings" yaml:"queue_savings" toml:"queue_savings"`             // share of excess queue minutes recovered
	ProcessSavings  float64 `json:"process_savings" yaml:"process_savings" toml:"process_savings"`       // share of excess process minutes recovered
	RoutingGainRate float64 `json:"routing_gain_rate" yaml:"routing_gain_rate" toml:"routing_gain_rate"` // % gain per unit of queue ratio
}

// Anomalies holds detector thresholds.
type Anomalies struct {
	IdleFactor          float64 `json:"idle_factor" yaml:"idle_factor" toml:"idle_factor"`
	IdleCriticalCount   int     `json:"idle_critical_count" yaml:"idle_critical_count" toml:"idle_critical_count"`
	IdleWarningCount    int     `json:"idle_warning_count" yaml:"idle_warning_count" toml:"idle_warning_count"`
	VolumeWindow        int     `json:"volume_window" yaml:"volume_window" toml:"volume_window"`
	VolumeFactor        float64 `json:"volume_factor" yaml:"volume_factor" toml:"volume_factor"`
	ReworkFactor        float64 `json:"rework_factor" yaml:"rework_factor" toml:"rework_factor"`
	ReworkMinCount      int     `json:"rework_min_count" yaml:"rework_min_count" toml:"rework_min_count"`
	ReworkCriticalCount int     `json:"rework_critical_count" yaml:"rework_critical_count" toml:"rework_critical_count"`
}

// Confidence holds the fixed confidence percentage attached to each prediction.
type Confidence struct {
	Queue      int `json:"queue" yaml:"queue" toml:"queue"`
	Process    int `json:"process" yaml:"process" toml:"process"`
	Critical   int `json:"critical" yaml:"critical" toml:"critical"`
	Efficiency int `json:"efficiency" yaml:"efficiency" toml:"efficiency"`
}

// Forecast holds the trend gates and per-trend percentages of the heuristic forecaster.
type Forecast struct {
	QueueUpAbove       float64    `json:"queue_up_above" yaml:"queue_up_above" toml:"queue_up_above"`
	QueueDownBelow     float64    `json:"queue_down_below" yaml:"queue_down_below" toml:"queue_down_below"`
	ProcessUpAbove     float64    `json:"process_up_above" yaml:"process_up_above" toml:"process_up_above"`
	QueueUpPct         float64    `json:"queue_up_pct" yaml:"queue_up_pct" toml:"queue_up_pct"`
	QueueDownPct       float64    `json:"queue_down_pct" yaml:"queue_down_pct" toml:"queue_down_pct"`
	QueueStablePct     float64    `json:"queue_stable_pct" yaml:"queue_stable_pct" toml:"queue_stable_pct"`
	ProcessUpPct       float64    `json:"process_up_pct" yaml:"process_up_pct" toml:"process_up_pct"`
	ProcessStablePct   float64    `json:"process_stable_pct" yaml:"process_stable_pct" toml:"process_stable_pct"`
	CriticalGrowth     float64    `json:"critical_growth" yaml:"critical_growth" toml:"critical_growth"`
	CriticalTrendRatio float64    `json:"critical_trend_ratio" yaml:"critical_trend_ratio" toml:"critical_trend_ratio"`
	EfficiencyPivot    int        `json:"efficiency_pivot" yaml:"efficiency_pivot" toml:"efficiency_pivot"`
	EfficiencyUp       int        `json:"efficiency_up" yaml:"efficiency_up" toml:"efficiency_up"`
	EfficiencyDown     int        `json:"efficiency_down" yaml:"efficiency_down" toml:"efficiency_down"`
	Confidence         Confidence `json:"confidence" yaml:"confidence" toml:"confidence"`
	Timeframe          string     `json:"timeframe" yaml:"timeframe" toml:"timeframe"`
}

// Recommendations holds the gates of the recommendation rules.
type Recommendations struct {
	QueueAbove      float64 `json:"queue_above" yaml:"queue_above" toml:"queue_above"`
	CriticalAbove   int     `json:"critical_above" yaml:"critical_above" toml:"critical_above"`
	EfficiencyBelow int     `json:"efficiency_below" yaml:"efficiency_below" toml:"efficiency_below"`
	ProcessAbove    float64 `json:"process_above" yaml:"process_above" toml:"process_above"`
}

// Simulation holds the what-if blend weights, caps, cost model and risk gates.
type Simulation struct {
	QueueCap      float64 `json:"queue_cap" yaml:"queue_cap" toml:"queue_cap"`
	ProcessCap    float64 `json:"process_cap" yaml:"process_cap" toml:"process_cap"`
	EfficiencyCap float64 `json:"efficiency_cap" yaml:"efficiency_cap" toml:"efficiency_cap"`

	QueueCapacityWeight     float64 `json:"queue_capacity_weight" yaml:"queue_capacity_weight" toml:"queue_capacity_weight"`
	QueueAutomationWeight   float64 `json:"queue_automation_weight" yaml:"queue_automation_weight" toml:"queue_automation_weight"`
	QueueRedesignBonus      float64 `json:"queue_redesign_bonus" yaml:"queue_redesign_bonus" toml:"queue_redesign_bonus"`
	ProcessAutomationWeight float64 `json:"process_automation_weight" yaml:"process_automation_weight" toml:"process_automation_weight"`
	ProcessStaffingWeight   float64 `json:"process_staffing_weight" yaml:"process_staffing_weight" toml:"process_staffing_weight"`
	ProcessRedesignBonus    float64 `json:"process_redesign_bonus" yaml:"process_redesign_bonus" toml:"process_redesign_bonus"`
	GainQueueWeight         float64 `json:"gain_queue_weight" yaml:"gain_queue_weight" toml:"gain_queue_weight"`
	GainProcessWeight       float64 `json:"gain_process_weight" yaml:"gain_process_weight" toml:"gain_process_weight"`
	GainAutomationWeight    float64 `json:"gain_automation_weight" yaml:"gain_automation_weight" toml:"gain_automation_weight"`

	CriticalDivisor float64 `json:"critical_divisor" yaml:"critical_divisor" toml:"critical_divisor"`
	HighRiskDivisor float64 `json:"high_risk_divisor" yaml:"high_risk_divisor" toml:"high_risk_divisor"`

	CostPerCapacityPoint   float64 `json:"cost_per_capacity_point" yaml:"cost_per_capacity_point" toml:"cost_per_capacity_point"`
	CostPerAutomationPoint float64 `json:"cost_per_automation_point" yaml:"cost_per_automation_point" toml:"cost_per_automation_point"`
	CostPerStaffingPoint   float64 `json:"cost_per_staffing_point" yaml:"cost_per_staffing_point" toml:"cost_per_staffing_point"`
	RedesignCost           float64 `json:"redesign_cost" yaml:"redesign_cost" toml:"redesign_cost"`
	CostPerMinute          float64 `json:"cost_per_minute" yaml:"cost_per_minute" toml:"cost_per_minute"`
	BatchesPerYear         float64 `json:"batches_per_year" yaml:"batches_per_year" toml:"batches_per_year"`

	AutomationRiskAbove float64 `json:"automation_risk_above" yaml:"automation_risk_above" toml:"automation_risk_above"`
	StaffingRiskBelow   float64 `json:"staffing_risk_below" yaml:"staffing_risk_below" toml:"staffing_risk_below"`
	CapacityRiskAbove   float64 `json:"capacity_risk_above" yaml:"capacity_risk_above" toml:"capacity_risk_above"`
}

// Default returns the calibrated policy used when no policy file is configured.
func Default() Policy {
	return Policy{
		Scoring: Scoring{
			QueueScale:    35,
			ProcessScale:  60,
			QueueWeight:   0.7,
			ProcessWeight: 0.3,
			CriticalAt:    80,
			HighAt:        60,
			MediumAt:      40,
		},
		Insights: Insights{
			QueueFactor:     1.5,
			ProcessFactor:   1.3,
			TotalFactor:     1.4,
			QueueSavings:    0.8,
			ProcessSavings:  0.5,
			RoutingGainRate: 30,
		},
		Anomalies: Anomalies{
			IdleFactor:          1.8,
			IdleCriticalCount:   10,
			IdleWarningCount:    5,
			VolumeWindow:        20,
			VolumeFactor:        1.3,
			ReworkFactor:        1.5,
			ReworkMinCount:      2,
			ReworkCriticalCount: 8,
		},
		Forecast: Forecast{
			QueueUpAbove:       18,
			QueueDownBelow:     15,
			ProcessUpAbove:     46,
			QueueUpPct:         15,
			QueueDownPct:       -10,
			QueueStablePct:     2,
			ProcessUpPct:       8,
			ProcessStablePct:   1,
			CriticalGrowth:     0.5,
			CriticalTrendRatio: 0.1,
			EfficiencyPivot:    60,
			EfficiencyUp:       2,
			EfficiencyDown:     -3,
			Confidence: Confidence{
				Queue:      78,
				Process:    82,
				Critical:   71,
				Efficiency: 75,
			},
			Timeframe: "Next 7 days",
		},
		Recommendations: Recommendations{
			QueueAbove:      18,
			CriticalAbove:   5,
			EfficiencyBelow: 60,
			ProcessAbove:    45,
		},
		Simulation: Simulation{
			QueueCap:                50,
			ProcessCap:              40,
			EfficiencyCap:           35,
			QueueCapacityWeight:     0.4,
			QueueAutomationWeight:   0.3,
			QueueRedesignBonus:      15,
			ProcessAutomationWeight: 0.35,
			ProcessStaffingWeight:   0.2,
			ProcessRedesignBonus:    10,
			GainQueueWeight:         0.4,
			GainProcessWeight:       0.3,
			GainAutomationWeight:    0.15,
			CriticalDivisor:         50,
			HighRiskDivisor:         60,
			CostPerCapacityPoint:    500,
			CostPerAutomationPoint:  800,
			CostPerStaffingPoint:    5000,
			RedesignCost:            15000,
			CostPerMinute:           2.5,
			BatchesPerYear:          52,
			AutomationRiskAbove:     50,
			StaffingRiskBelow:       -20,
			CapacityRiskAbove:       40,
		},
	}
}

// Validate rejects policies that would divide by zero or invert the risk tiers.
func (p Policy) Validate() error {
	s := p.Scoring
	if s.QueueScale <= 0 || s.ProcessScale <= 0 {
		return fmt.Errorf("%w: scoring scales must be positive", ErrInvalidPolicy)
	}
	if s.QueueWeight < 0 || s.ProcessWeight < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalidPolicy)
	}
	if !(s.MediumAt <= s.HighAt && s.HighAt <= s.CriticalAt) {
		return fmt.Errorf("%w: risk tiers must satisfy medium <= high <= critical (got %.1f, %.1f, %.1f)",
			ErrInvalidPolicy, s.MediumAt, s.HighAt, s.CriticalAt)
	}
	if p.Anomalies.VolumeWindow <= 0 {
		return fmt.Errorf("%w: anomalies.volume_window must be positive", ErrInvalidPolicy)
	}
	if p.Simulation.CriticalDivisor == 0 || p.Simulation.HighRiskDivisor == 0 {
		return fmt.Errorf("%w: simulation divisors must be non-zero", ErrInvalidPolicy)
	}
	if p.Forecast.Timeframe == "" {
		return fmt.Errorf("%w: forecast.timeframe is required", ErrInvalidPolicy)
	}
	return nil
}
