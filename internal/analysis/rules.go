package analysis

import (
	"fmt"
	"slices"

	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

const normalInsight = "Performance within normal parameters"

// taskContext is everything a per-task rule may look at.
type taskContext struct {
	Task       stats.TaskRecord
	AvgQueue   float64
	AvgProcess float64
	Risk       RiskLevel
	Policy     policy.Insights
}

func (c taskContext) queueExcess() float64   { return c.Task.QueueWaitTime - c.AvgQueue }
func (c taskContext) processExcess() float64 { return c.Task.ProcessStepDuration - c.AvgProcess }

func (c taskContext) queueOverLimit() bool {
	return c.Task.QueueWaitTime > c.AvgQueue*c.Policy.QueueFactor
}

func (c taskContext) processOverLimit() bool {
	return c.Task.ProcessStepDuration > c.AvgProcess*c.Policy.ProcessFactor
}

func (c taskContext) queueDominates() bool {
	return c.Task.QueueWaitTime > c.Task.ProcessStepDuration
}

// insightRule emits one message when its predicate holds.
type insightRule struct {
	name    string
	applies func(c taskContext) bool
	render  func(c taskContext) string
}

var insightRules = []insightRule{
	{
		name:    "queue_above_average",
		applies: taskContext.queueOverLimit,
		render: func(c taskContext) string {
			return fmt.Sprintf("Queue wait time is %d%% above average", stats.RoundInt((c.Task.QueueWaitTime/c.AvgQueue-1)*100))
		},
	},
	{
		name:    "process_above_normal",
		applies: taskContext.processOverLimit,
		render: func(c taskContext) string {
			return fmt.Sprintf("Process duration exceeds normal by %d%%", stats.RoundInt((c.Task.ProcessStepDuration/c.AvgProcess-1)*100))
		},
	},
	{
		name:    "queue_exceeds_process",
		applies: taskContext.queueDominates,
		render: func(taskContext) string {
			return "Queue time exceeds process time - prioritize queue optimization"
		},
	},
	{
		name: "critical_delay",
		applies: func(c taskContext) bool {
			return c.Task.TotalTime() > (c.AvgQueue+c.AvgProcess)*c.Policy.TotalFactor
		},
		render: func(taskContext) string {
			return "Critical delay detected - immediate intervention recommended"
		},
	},
}

// stepRule emits one step for tasks in one of its tiers when its predicate holds.
type stepRule struct {
	name    string
	tiers   []RiskLevel
	applies func(c taskContext) bool
	build   func(c taskContext) ActionableStep
}

func always(taskContext) bool { return true }

// escalatingPriority is immediate for critical tasks and high otherwise.
func escalatingPriority(r RiskLevel) StepPriority {
	if r == RiskCritical {
		return PriorityImmediate
	}
	return PriorityHigh
}

var (
	elevatedTiers = []RiskLevel{RiskCritical, RiskHigh}
	criticalTier  = []RiskLevel{RiskCritical}
	mediumTier    = []RiskLevel{RiskMedium}
	lowTier       = []RiskLevel{RiskLow}
)

var stepRules = []stepRule{
	{
		name:    "reduce_queue",
		tiers:   elevatedTiers,
		applies: taskContext.queueOverLimit,
		build: func(c taskContext) ActionableStep {
			return ActionableStep{
				Action:         fmt.Sprintf("Reduce queue time by %dmin through parallel processing", stats.RoundInt(c.queueExcess())),
				Priority:       escalatingPriority(c.Risk),
				ExpectedImpact: fmt.Sprintf("Save ~%dmin per task", stats.RoundInt(c.queueExcess()*c.Policy.QueueSavings)),
			}
		},
	},
	{
		name:    "review_automation",
		tiers:   elevatedTiers,
		applies: taskContext.processOverLimit,
		build: func(c taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Review process steps for automation opportunities",
				Priority:       escalatingPriority(c.Risk),
				ExpectedImpact: fmt.Sprintf("Reduce processing time by up to %dmin", stats.RoundInt(c.processExcess()*c.Policy.ProcessSavings)),
			}
		},
	},
	{
		name:    "increase_peak_resources",
		tiers:   elevatedTiers,
		applies: taskContext.queueDominates,
		build: func(taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Increase resource allocation during peak hours",
				Priority:       PriorityHigh,
				ExpectedImpact: "Reduce queue backlog by 30-40%",
			}
		},
	},
	{
		name:    "escalate",
		tiers:   criticalTier,
		applies: always,
		build: func(taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Escalate to operations manager for immediate review",
				Priority:       PriorityImmediate,
				ExpectedImpact: "Prevent SLA breach and customer impact",
			}
		},
	},
	{
		name:    "temporary_reallocation",
		tiers:   criticalTier,
		applies: always,
		build: func(taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Consider temporary resource reallocation from lower-priority tasks",
				Priority:       PriorityImmediate,
				ExpectedImpact: "Address bottleneck within 2-4 hours",
			}
		},
	},
	{
		name:    "monitor_closely",
		tiers:   mediumTier,
		applies: always,
		build: func(taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Monitor task closely and prepare contingency plan",
				Priority:       PriorityMedium,
				ExpectedImpact: "Prevent escalation to high/critical status",
			}
		},
	},
	{
		name:  "optimize_routing",
		tiers: mediumTier,
		applies: func(c taskContext) bool {
			return c.Task.QueueWaitTime > c.AvgQueue
		},
		build: func(c taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Optimize task routing to reduce wait time",
				Priority:       PriorityMedium,
				ExpectedImpact: fmt.Sprintf("Potential %d%% improvement", stats.RoundInt((c.Task.QueueWaitTime/c.AvgQueue-1)*c.Policy.RoutingGainRate)),
			}
		},
	},
	{
		name:    "continue_monitoring",
		tiers:   lowTier,
		applies: always,
		build: func(taskContext) ActionableStep {
			return ActionableStep{
				Action:         "Continue monitoring - no immediate action required",
				Priority:       PriorityLow,
				ExpectedImpact: "Maintain current performance levels",
			}
		},
	},
}

// GenerateInsights evaluates every insight rule in order and keeps all that match.
func GenerateInsights(task stats.TaskRecord, avgQueue, avgProcess float64, p policy.Insights) []string {
	c := taskContext{Task: task, AvgQueue: avgQueue, AvgProcess: avgProcess, Policy: p}

	var insights []string
	for _, r := range insightRules {
		if r.applies(c) {
			insights = append(insights, r.render(c))
		}
	}

	if len(insights) == 0 {
		return []string{normalInsight}
	}
	return insights
}

// GenerateActionableSteps evaluates the step rules for the task's risk tier, in order.
func GenerateActionableSteps(task stats.TaskRecord, avgQueue, avgProcess float64, risk RiskLevel, p policy.Insights) []ActionableStep {
	c := taskContext{Task: task, AvgQueue: avgQueue, AvgProcess: avgProcess, Risk: risk, Policy: p}

	steps := make([]ActionableStep, 0, 4)
	for _, r := range stepRules {
		if !slices.Contains(r.tiers, risk) {
			continue
		}
		if r.applies(c) {
			steps = append(steps, r.build(c))
		}
	}
	return steps
}
