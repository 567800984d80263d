package simulation

import (
	"math"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

// Improvements are the blended percentage reductions driving the projection.
type Improvements struct {
	QueueTimeReduction   float64 `json:"queueTimeReduction"`
	ProcessTimeReduction float64 `json:"processTimeReduction"`
	EfficiencyGain       float64 `json:"efficiencyGain"`
	BottleneckReduction  int     `json:"bottleneckReduction"`
}

type CostImpact struct {
	ImplementationCost float64 `json:"implementationCost"`
	AnnualSavings      int     `json:"annualSavings"`
	ROI                int     `json:"roi"`
	PaybackMonths      int     `json:"paybackMonths"`
}

// Result is one scenario applied to one baseline.
type Result struct {
	Scenario         Scenario                  `json:"scenario"`
	OriginalMetrics  analysis.AggregateMetrics `json:"originalMetrics"`
	ProjectedMetrics analysis.AggregateMetrics `json:"projectedMetrics"`
	Improvements     Improvements              `json:"improvements"`
	CostImpact       CostImpact                `json:"costImpact"`
	Risks            []string                  `json:"risks"`
}

// Simulate projects base metrics through a scenario. It is pure: the same inputs
// always produce the same result.
func Simulate(base analysis.AggregateMetrics, scenario Scenario, p policy.Simulation) Result {
	params := scenario.Parameters

	// 1. Blend the levers into capped reductions
	queueReduction := math.Min(p.QueueCap,
		params.QueueCapacityChange*p.QueueCapacityWeight+
			params.AutomationLevel*p.QueueAutomationWeight+
			redesignBonus(params, p.QueueRedesignBonus))

	processReduction := math.Min(p.ProcessCap,
		params.AutomationLevel*p.ProcessAutomationWeight+
			params.StaffingChange*p.ProcessStaffingWeight+
			redesignBonus(params, p.ProcessRedesignBonus))

	efficiencyGain := math.Min(p.EfficiencyCap,
		queueReduction*p.GainQueueWeight+
			processReduction*p.GainProcessWeight+
			params.AutomationLevel*p.GainAutomationWeight)

	// 2. Project the metrics
	projected := analysis.AggregateMetrics{
		AvgQueueTime:        stats.Round1(base.AvgQueueTime * (1 - queueReduction/100)),
		AvgProcessTime:      stats.Round1(base.AvgProcessTime * (1 - processReduction/100)),
		AvgTotalTime:        stats.Round1(base.AvgTotalTime * (1 - (queueReduction+processReduction)/200)),
		TotalTasks:          base.TotalTasks,
		CriticalBottlenecks: max(0, int(math.Floor(float64(base.CriticalBottlenecks)*(1-efficiencyGain/p.CriticalDivisor)))),
		HighRiskTasks:       max(0, int(math.Floor(float64(base.HighRiskTasks)*(1-efficiencyGain/p.HighRiskDivisor)))),
		EfficiencyScore:     min(100, stats.RoundInt(float64(base.EfficiencyScore)+efficiencyGain)),
	}

	// 3. Cost model
	implementationCost := params.QueueCapacityChange*p.CostPerCapacityPoint +
		params.AutomationLevel*p.CostPerAutomationPoint +
		math.Max(0, params.StaffingChange)*p.CostPerStaffingPoint
	if params.ProcessRedesign {
		implementationCost += p.RedesignCost
	}

	timeSavedPerTask := base.AvgTotalTime - projected.AvgTotalTime
	annualTasks := float64(base.TotalTasks) * p.BatchesPerYear
	annualSavings := stats.Round(timeSavedPerTask * p.CostPerMinute * annualTasks)

	var roi, payback int
	if implementationCost > 0 {
		roi = stats.RoundInt(annualSavings / implementationCost * 100)
	}
	if annualSavings > 0 {
		payback = stats.RoundInt(implementationCost / annualSavings * 12)
	}

	return Result{
		Scenario:         scenario,
		OriginalMetrics:  base,
		ProjectedMetrics: projected,
		Improvements: Improvements{
			QueueTimeReduction:   stats.Round1(queueReduction),
			ProcessTimeReduction: stats.Round1(processReduction),
			EfficiencyGain:       stats.Round1(efficiencyGain),
			BottleneckReduction: stats.RoundInt(
				(1 - float64(projected.CriticalBottlenecks)/float64(max(1, base.CriticalBottlenecks))) * 100),
		},
		CostImpact: CostImpact{
			ImplementationCost: implementationCost,
			AnnualSavings:      int(annualSavings),
			ROI:                roi,
			PaybackMonths:      payback,
		},
		Risks: assessRisks(params, p),
	}
}

func redesignBonus(params Parameters, bonus float64) float64 {
	if params.ProcessRedesign {
		return bonus
	}
	return 0
}

func assessRisks(params Parameters, p policy.Simulation) []string {
	var risks []string
	if params.AutomationLevel > p.AutomationRiskAbove {
		risks = append(risks, "High automation may require significant training and change management")
	}
	if params.StaffingChange < p.StaffingRiskBelow {
		risks = append(risks, "Significant staff reduction may impact team morale and knowledge retention")
	}
	if params.QueueCapacityChange > p.CapacityRiskAbove {
		risks = append(risks, "Large capacity increases may strain existing infrastructure")
	}
	if params.ProcessRedesign {
		risks = append(risks, "Process redesign requires thorough testing before production deployment")
	}
	if len(risks) == 0 {
		risks = append(risks, "Low-risk scenario with minimal implementation challenges")
	}
	return risks
}
