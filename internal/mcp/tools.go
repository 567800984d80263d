package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type noInput struct{}

// DatasetInput selects the dataset a tool operates on.
type DatasetInput struct {
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
}

type LoadDatasetInput struct {
	Path      string `json:"path" jsonschema:"Path to a .jsonl, .csv or .json task file with task_id, queue_wait_time and process_step_duration (minutes)."`
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"ID to store the dataset under. Default: the file name without extension."`
	Persist   bool   `json:"persist,omitempty" jsonschema:"If true, also save the dataset as JSONL in the data directory so it is restored on restart."`
}

type GenerateDatasetInput struct {
	DatasetID    string `json:"dataset_id,omitempty" jsonschema:"ID to store the dataset under. Default: mock-<scenario>."`
	Scenario     string `json:"scenario,omitempty" jsonschema:"Shape of the synthetic data: steady, congested or spiky. Default: steady."`
	Distribution string `json:"distribution,omitempty" jsonschema:"Sampling distribution: uniform or weibull. Default: uniform."`
	Count        int    `json:"count,omitempty" jsonschema:"Number of tasks to generate. Default: 200."`
	Seed         int64  `json:"seed,omitempty" jsonschema:"Random seed. The same seed always yields the same dataset."`
}

type UnloadDatasetInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"ID of the dataset to drop from memory."`
}

type AnalyzeInput struct {
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
	Limit     int    `json:"limit,omitempty" jsonschema:"Number of top bottlenecks to return. Default: 10. Use 0 for the default."`
}

type TaskAnalysisInput struct {
	DatasetID string `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
	TaskID    int    `json:"task_id" jsonschema:"The task to drill into."`
}

type DetectAnomaliesInput struct {
	DatasetID string   `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
	Types     []string `json:"types,omitempty" jsonschema:"Anomaly types to report: idle_time, volume_spike, rework_loop, skipped_validation. Default: all."`
}

// ScenarioParameters are the what-if levers of a custom scenario.
type ScenarioParameters struct {
	QueueCapacityChange float64 `json:"queue_capacity_change,omitempty" jsonschema:"Percent change in queue capacity, typically -50 to 100."`
	AutomationLevel     float64 `json:"automation_level,omitempty" jsonschema:"Percent of the process that is automated, 0 to 100."`
	StaffingChange      float64 `json:"staffing_change,omitempty" jsonschema:"Percent change in staffing, typically -30 to 50."`
	ProcessRedesign     bool    `json:"process_redesign,omitempty" jsonschema:"Whether the process is redesigned."`
}

type SimulateInput struct {
	DatasetID  string              `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
	ScenarioID string              `json:"scenario_id,omitempty" jsonschema:"Preset scenario ID from list_scenarios. Ignored when parameters are given."`
	Name       string              `json:"name,omitempty" jsonschema:"Name for a custom scenario."`
	Parameters *ScenarioParameters `json:"parameters,omitempty" jsonschema:"Custom scenario parameters."`
}

type CompareInput struct {
	DatasetID   string   `json:"dataset_id,omitempty" jsonschema:"ID of a loaded dataset. Optional when exactly one dataset is loaded or a default is configured."`
	ScenarioIDs []string `json:"scenario_ids,omitempty" jsonschema:"Preset scenario IDs to compare. Default: all presets."`
}

type RoadmapInput struct {
	Goal string `json:"goal" jsonschema:"The analytical goal: bottlenecks, forecasting, optimization or data_onboarding."`
}

// addTool registers a handler whose result is wrapped as indented JSON text.
// Handler errors become tool errors the client can read.
func addTool[In any](s *Server, tool *sdkmcp.Tool, h func(ctx context.Context, in In) (any, error)) {
	sdkmcp.AddTool(s.sdk, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		start := time.Now()
		res, err := h(ctx, in)
		s.metrics.ToolCall(tool.Name, err)
		if err != nil {
			log.Warn().Err(err).Str("tool", tool.Name).Msg("Tool call failed")
			return nil, nil, err
		}

		text, err := formatResult(res)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("tool", tool.Name).Dur("duration", time.Since(start)).Msg("Tool call completed")

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		}, nil, nil
	})
}

func (s *Server) registerTools() {
	addTool(s, &sdkmcp.Tool{
		Name: "load_dataset",
		Description: "Load a task file (JSONL, CSV or JSON array) into memory for analysis. " +
			"Every record needs task_id, queue_wait_time and process_step_duration in minutes; the whole file is rejected if any record is invalid. " +
			"Guidance: Call 'analyze_bottlenecks' next.",
	}, s.handleLoadDataset)

	addTool(s, &sdkmcp.Tool{
		Name: "generate_dataset",
		Description: "Generate a synthetic task dataset for demos and what-if exploration. " +
			"NOT REAL DATA: never present results computed from a generated dataset as observations of the user's process.",
	}, s.handleGenerateDataset)

	addTool(s, &sdkmcp.Tool{
		Name:        "list_datasets",
		Description: "List the datasets currently loaded, with task counts and sources.",
	}, s.handleListDatasets)

	addTool(s, &sdkmcp.Tool{
		Name:        "unload_dataset",
		Description: "Drop a dataset from memory. A copy saved with persist stays in the data directory and is restored on restart.",
	}, s.handleUnloadDataset)

	addTool(s, &sdkmcp.Tool{
		Name: "analyze_bottlenecks",
		Description: "Score every task (0-100+, weighted queue and process time), classify its risk (low, medium, high, critical) " +
			"and return the aggregate metrics plus the top bottlenecks with insights and actionable steps. " +
			"This is the first stage of the pipeline; anomalies, forecasts, recommendations and simulations all build on its metrics.",
	}, s.handleAnalyzeBottlenecks)

	addTool(s, &sdkmcp.Tool{
		Name:        "get_task_analysis",
		Description: "Drill down into a single task: score, risk level, insights against the dataset averages and actionable steps.",
	}, s.handleGetTaskAnalysis)

	addTool(s, &sdkmcp.Tool{
		Name: "detect_anomalies",
		Description: "Detect idle-time, volume-spike and rework-loop anomalies, ordered critical, warning, info. " +
			"The volume-spike check only inspects the first tasks of the dataset in file order.",
	}, s.handleDetectAnomalies)

	addTool(s, &sdkmcp.Tool{
		Name: "forecast_trends",
		Description: "Project queue time, process duration, critical bottlenecks and efficiency for the next period. " +
			"STRICT GUARDRAIL: these are rule-based heuristics with fixed confidence values, not statistical forecasts. " +
			"DO NOT present the confidence figures as probabilities.",
	}, s.handleForecastTrends)

	addTool(s, &sdkmcp.Tool{
		Name:        "recommend_actions",
		Description: "Recommend improvement actions with quantified SLA and cost impact, ordered by priority.",
	}, s.handleRecommendActions)

	addTool(s, &sdkmcp.Tool{
		Name:        "list_scenarios",
		Description: "List the preset what-if scenarios and their parameters.",
	}, s.handleListScenarios)

	addTool(s, &sdkmcp.Tool{
		Name: "simulate_scenario",
		Description: "Project the dataset's metrics through a preset or custom scenario: improvements, cost impact (implementation cost, annual savings, ROI, payback) and risks. " +
			"Guidance: Use 'compare_scenarios' to rank several options at once.",
	}, s.handleSimulateScenario)

	addTool(s, &sdkmcp.Tool{
		Name:        "compare_scenarios",
		Description: "Simulate several scenarios against the same baseline and rank them by ROI.",
	}, s.handleCompareScenarios)

	addTool(s, &sdkmcp.Tool{
		Name:        "get_diagnostic_roadmap",
		Description: "Get the recommended sequence of tools for an analytical goal. Call this first when unsure where to start.",
	}, s.handleGetDiagnosticRoadmap)
}
