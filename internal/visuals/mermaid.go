package visuals

import (
	"fmt"
	"math"
	"strings"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/forecast"
	"bottleneck-mcp/internal/simulation"
)

// GenerateScoreChart creates a Mermaid xychart-beta of the highest bottleneck scores,
// with the critical threshold drawn as a flat line for context.
func GenerateScoreChart(bottlenecks []analysis.BottleneckAnalysis, limit int, criticalAt float64) string {
	if len(bottlenecks) == 0 {
		return ""
	}

	// Keep the chart legible
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	limit = min(limit, len(bottlenecks))

	var labels []string
	var values []string
	var thresholds []string
	maxVal := criticalAt

	for _, b := range bottlenecks[:limit] {
		labels = append(labels, fmt.Sprintf("\"T%d\"", b.TaskID))
		values = append(values, fmt.Sprintf("%.1f", b.BottleneckScore))
		thresholds = append(thresholds, fmt.Sprintf("%.1f", criticalAt))
		maxVal = math.Max(maxVal, b.BottleneckScore)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Bottleneck Scores (Top %d)\"\n", limit))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Score\" 0 --> %d\n", int(math.Ceil(maxVal*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(thresholds, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRiskPie creates a Mermaid pie chart of tasks per risk tier. Empty tiers are omitted.
func GenerateRiskPie(counts map[analysis.RiskLevel]int) string {
	order := []analysis.RiskLevel{analysis.RiskCritical, analysis.RiskHigh, analysis.RiskMedium, analysis.RiskLow}

	total := 0
	for _, r := range order {
		total += counts[r]
	}
	if total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Risk Distribution\n")
	for _, r := range order {
		if counts[r] > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", r, counts[r]))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateForecastChart compares current and predicted values of the time metrics.
func GenerateForecastChart(predictions []forecast.Prediction) string {
	var labels []string
	var current []string
	var predicted []string
	maxVal := 0.0

	for _, p := range predictions {
		// Counts and scores live on a different scale than minutes
		if p.Metric != "Queue Wait Time" && p.Metric != "Process Duration" {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", p.Metric))
		current = append(current, fmt.Sprintf("%.1f", p.CurrentValue))
		predicted = append(predicted, fmt.Sprintf("%.1f", p.PredictedValue))
		maxVal = math.Max(maxVal, math.Max(p.CurrentValue, p.PredictedValue))
	}

	if len(labels) == 0 || maxVal == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Forecast (Current vs Predicted)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Minutes\" 0 --> %d\n", int(math.Ceil(maxVal*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(current, ", ")))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(predicted, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateScenarioChart creates a Mermaid bar chart of ROI per simulated scenario.
func GenerateScenarioChart(results []simulation.Result) string {
	if len(results) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0
	minVal := 0

	for _, r := range results {
		labels = append(labels, fmt.Sprintf("\"%s\"", r.Scenario.ID))
		values = append(values, fmt.Sprintf("%d", r.CostImpact.ROI))
		maxVal = max(maxVal, r.CostImpact.ROI)
		minVal = min(minVal, r.CostImpact.ROI)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Scenario ROI (%)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"ROI\" %d --> %d\n", minVal, maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
