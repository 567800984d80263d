package mcp

import (
	"context"
	"errors"
	"fmt"
)

var errScenarioRequired = errors.New("either scenario_id or parameters is required; call 'list_scenarios' for the presets")

func (s *Server) handleGetDiagnosticRoadmap(_ context.Context, in RoadmapInput) (any, error) {
	roadmaps := map[string]any{
		"bottlenecks": map[string]any{
			"title":       "Analytical Workflow: Bottleneck Triage",
			"description": "Recommended sequence to find the tasks and patterns that slow the workflow down.",
			"steps": []any{
				map[string]any{"step": 1, "tool": "load_dataset", "description": "Load the task log (queue wait and process durations in minutes)."},
				map[string]any{"step": 2, "tool": "analyze_bottlenecks", "description": "Score every task and read the aggregate metrics and risk distribution."},
				map[string]any{"step": 3, "tool": "get_task_analysis", "description": "Drill into the highest-scoring tasks for insights and actionable steps."},
				map[string]any{"step": 4, "tool": "detect_anomalies", "description": "Check for idle time, volume spikes and rework loops across the dataset."},
			},
		},
		"forecasting": map[string]any{
			"title":       "Analytical Workflow: Trend Outlook",
			"description": "Recommended sequence to project where the workflow is heading next period.",
			"steps": []any{
				map[string]any{"step": 1, "tool": "analyze_bottlenecks", "description": "Establish the current metrics the forecast starts from."},
				map[string]any{"step": 2, "tool": "detect_anomalies", "description": "Rule out one-off disturbances that would skew the outlook."},
				map[string]any{"step": 3, "tool": "forecast_trends", "description": "Project queue time, process duration, critical bottlenecks and efficiency."},
			},
		},
		"optimization": map[string]any{
			"title":       "Analytical Workflow: Improvement Planning",
			"description": "Recommended sequence to choose and justify a process intervention.",
			"steps": []any{
				map[string]any{"step": 1, "tool": "analyze_bottlenecks", "description": "Establish the baseline metrics."},
				map[string]any{"step": 2, "tool": "recommend_actions", "description": "Get prioritized actions with SLA and cost impact."},
				map[string]any{"step": 3, "tool": "list_scenarios", "description": "Review the preset what-if scenarios."},
				map[string]any{"step": 4, "tool": "compare_scenarios", "description": "Rank the scenarios by ROI against the same baseline."},
				map[string]any{"step": 5, "tool": "simulate_scenario", "description": "Refine the chosen option with custom parameters and review its risks."},
			},
		},
		"data_onboarding": map[string]any{
			"title":       "Analytical Workflow: Data Onboarding",
			"description": "Recommended sequence when no real task log is available yet.",
			"steps": []any{
				map[string]any{"step": 1, "tool": "generate_dataset", "description": "Create a synthetic dataset to explore the tools safely."},
				map[string]any{"step": 2, "tool": "list_datasets", "description": "Confirm what is loaded and under which IDs."},
				map[string]any{"step": 3, "tool": "load_dataset", "description": "Load the real task log once available and persist it for later sessions."},
				map[string]any{"step": 4, "tool": "unload_dataset", "description": "Drop the synthetic dataset so tools default to the real one."},
			},
		},
	}

	res, ok := roadmaps[in.Goal]
	if !ok {
		return nil, fmt.Errorf("unknown goal: %s. Available goals: bottlenecks, forecasting, optimization, data_onboarding", in.Goal)
	}

	return WrapResponse(res, nil, nil, nil, nil), nil
}
