package visuals

import (
	"strings"
	"testing"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/forecast"
	"bottleneck-mcp/internal/simulation"
)

func TestGenerateScoreChart(t *testing.T) {
	bottlenecks := []analysis.BottleneckAnalysis{
		{TaskID: 2, BottleneckScore: 65},
		{TaskID: 1, BottleneckScore: 30},
		{TaskID: 3, BottleneckScore: 12.5},
	}

	got := GenerateScoreChart(bottlenecks, 2, 50)
	expected := "```mermaid\n" +
		"xychart-beta\n" +
		"    title \"Bottleneck Scores (Top 2)\"\n" +
		"    x-axis [\"T2\", \"T1\"]\n" +
		"    y-axis \"Score\" 0 --> 72\n" +
		"    bar [65.0, 30.0]\n" +
		"    line [50.0, 50.0]\n" +
		"```"
	if got != expected {
		t.Errorf("unexpected chart:\n%s", got)
	}

	if GenerateScoreChart(nil, 5, 80) != "" {
		t.Error("expected empty chart for no data")
	}
}

func TestGenerateScoreChart_CapsAtTwenty(t *testing.T) {
	bottlenecks := make([]analysis.BottleneckAnalysis, 30)
	for i := range bottlenecks {
		bottlenecks[i] = analysis.BottleneckAnalysis{TaskID: i + 1, BottleneckScore: float64(100 - i)}
	}

	got := GenerateScoreChart(bottlenecks, 0, 80)
	if !strings.Contains(got, "Top 20") {
		t.Errorf("expected chart capped at 20 bars, got:\n%s", got)
	}
	if strings.Contains(got, "\"T21\"") {
		t.Error("task 21 should not be plotted")
	}
}

func TestGenerateRiskPie(t *testing.T) {
	got := GenerateRiskPie(map[analysis.RiskLevel]int{analysis.RiskHigh: 1, analysis.RiskLow: 2})
	expected := "```mermaid\npie title Risk Distribution\n    \"high\" : 1\n    \"low\" : 2\n```"
	if got != expected {
		t.Errorf("unexpected pie:\n%s", got)
	}

	if GenerateRiskPie(map[analysis.RiskLevel]int{}) != "" {
		t.Error("expected empty pie for no tasks")
	}
}

func TestGenerateForecastChart(t *testing.T) {
	preds := []forecast.Prediction{
		{Metric: "Queue Wait Time", CurrentValue: 20, PredictedValue: 23},
		{Metric: "Process Duration", CurrentValue: 50, PredictedValue: 54},
		{Metric: "Efficiency Score", CurrentValue: 50, PredictedValue: 47},
	}

	got := GenerateForecastChart(preds)
	if !strings.Contains(got, "x-axis [\"Queue Wait Time\", \"Process Duration\"]") {
		t.Errorf("expected only time metrics on the x-axis, got:\n%s", got)
	}
	if !strings.Contains(got, "bar [20.0, 50.0]") || !strings.Contains(got, "bar [23.0, 54.0]") {
		t.Errorf("missing series, got:\n%s", got)
	}
	if !strings.Contains(got, "0 --> 65") {
		t.Errorf("unexpected y-axis, got:\n%s", got)
	}
}

func TestGenerateScenarioChart(t *testing.T) {
	results := []simulation.Result{
		{Scenario: simulation.Scenario{ID: "automation-focus"}, CostImpact: simulation.CostImpact{ROI: 367}},
		{Scenario: simulation.Scenario{ID: "worse"}, CostImpact: simulation.CostImpact{ROI: -156}},
	}

	got := GenerateScenarioChart(results)
	if !strings.Contains(got, "y-axis \"ROI\" -156 --> 440") {
		t.Errorf("unexpected y-axis, got:\n%s", got)
	}
	if !strings.Contains(got, "bar [367, -156]") {
		t.Errorf("unexpected bars, got:\n%s", got)
	}
}
