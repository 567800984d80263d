package forecast

import (
	"cmp"
	"slices"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

type Category string

const (
	CategoryProcess    Category = "process"
	CategoryResource   Category = "resource"
	CategoryAutomation Category = "automation"
	CategoryCapacity   Category = "capacity"
)

// Impact quantifies a recommendation: SLA improvement in percent and estimated savings.
type Impact struct {
	SLA    int    `json:"sla"`
	Cost   int    `json:"cost"`
	Effort Effort `json:"effort"`
}

type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      Impact   `json:"impact"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
}

type recommendationRule struct {
	applies func(m analysis.AggregateMetrics, p policy.Recommendations) bool
	rec     Recommendation
}

var recommendationRules = []recommendationRule{
	{
		applies: func(m analysis.AggregateMetrics, p policy.Recommendations) bool { return m.AvgQueueTime > p.QueueAbove },
		rec: Recommendation{
			ID:          "rec-1",
			Title:       "Implement Parallel Processing",
			Description: "Deploy additional processing lanes during peak hours (9AM-2PM) to reduce queue buildup. Analysis shows 40% of queue time occurs during these windows.",
			Impact:      Impact{SLA: 25, Cost: 15000, Effort: EffortMedium},
			Priority:    PriorityHigh,
			Category:    CategoryCapacity,
		},
	},
	{
		applies: func(m analysis.AggregateMetrics, p policy.Recommendations) bool {
			return m.CriticalBottlenecks > p.CriticalAbove
		},
		rec: Recommendation{
			ID:          "rec-2",
			Title:       "Automate Validation Steps",
			Description: "Replace manual validation checkpoints with automated rules engine. Currently 35% of critical bottlenecks occur at validation stages.",
			Impact:      Impact{SLA: 40, Cost: 25000, Effort: EffortHigh},
			Priority:    PriorityCritical,
			Category:    CategoryAutomation,
		},
	},
	{
		applies: func(m analysis.AggregateMetrics, p policy.Recommendations) bool {
			return m.EfficiencyScore < p.EfficiencyBelow
		},
		rec: Recommendation{
			ID:          "rec-3",
			Title:       "Redesign Task Dependencies",
			Description: "Remove sequential dependencies where parallel execution is possible. Task dependency analysis reveals 28% could run concurrently.",
			Impact:      Impact{SLA: 18, Cost: 8000, Effort: EffortLow},
			Priority:    PriorityHigh,
			Category:    CategoryProcess,
		},
	},
	{
		applies: func(m analysis.AggregateMetrics, p policy.Recommendations) bool {
			return m.AvgProcessTime > p.ProcessAbove
		},
		rec: Recommendation{
			ID:          "rec-4",
			Title:       "Skill-Based Routing",
			Description: "Route complex tasks to specialized handlers. Process time variance analysis shows 22% improvement potential with expertise matching.",
			Impact:      Impact{SLA: 15, Cost: 5000, Effort: EffortLow},
			Priority:    PriorityMedium,
			Category:    CategoryResource,
		},
	},
}

var monitoringRecommendation = Recommendation{
	ID:          "rec-5",
	Title:       "Continuous Monitoring Enhancement",
	Description: "Implement real-time dashboards with automated threshold alerts to maintain current performance levels and detect early degradation.",
	Impact:      Impact{SLA: 5, Cost: 2000, Effort: EffortLow},
	Priority:    PriorityLow,
	Category:    CategoryProcess,
}

// Recommend evaluates the recommendation rules against the aggregate metrics and
// returns the matches ordered by priority. Equal priorities keep rule order.
// When no rule fires a single monitoring recommendation is returned.
func Recommend(m analysis.AggregateMetrics, _ []analysis.BottleneckAnalysis, p policy.Recommendations) []Recommendation {
	var recs []Recommendation
	for _, r := range recommendationRules {
		if r.applies(m, p) {
			recs = append(recs, r.rec)
		}
	}

	if len(recs) == 0 {
		return []Recommendation{monitoringRecommendation}
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(a.Priority.rank(), b.Priority.rank())
	})
	return recs
}

// TotalSavings sums the estimated savings of a recommendation set.
func TotalSavings(recs []Recommendation) int {
	total := 0
	for _, r := range recs {
		total += r.Impact.Cost
	}
	return total
}
