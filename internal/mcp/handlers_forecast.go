package mcp

import (
	"context"
	"time"

	"bottleneck-mcp/internal/forecast"
	"bottleneck-mcp/internal/visuals"
)

// ForecastReport is the payload of forecast_trends.
type ForecastReport struct {
	Predictions []forecast.Prediction `json:"predictions"`
}

func (s *Server) handleForecastTrends(_ context.Context, in DatasetInput) (any, error) {
	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	predictions, err := forecast.Predict(run.Result.Metrics, run.Result.Bottlenecks, run.Policy.Forecast)
	s.metrics.ObserveStage("forecast", start)
	if err != nil {
		return nil, err
	}

	diagnostics := []string{
		"Predictions apply fixed percentage rules to the current averages. Confidence values are constants, not probabilities.",
	}
	charts := s.charts(visuals.GenerateForecastChart(predictions))

	return WrapResponse(ForecastReport{Predictions: predictions}, run.context(), diagnostics, []string{
		"Use 'simulate_scenario' to see how an intervention would change these figures.",
	}, charts), nil
}

// RecommendationReport is the payload of recommend_actions.
type RecommendationReport struct {
	Recommendations    []forecast.Recommendation `json:"recommendations"`
	TotalAnnualSavings int                       `json:"totalAnnualSavings"`
}

func (s *Server) handleRecommendActions(_ context.Context, in DatasetInput) (any, error) {
	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	recs := forecast.Recommend(run.Result.Metrics, run.Result.Bottlenecks, run.Policy.Recommendations)
	s.metrics.ObserveStage("recommend", start)

	report := RecommendationReport{Recommendations: recs, TotalAnnualSavings: forecast.TotalSavings(recs)}
	return WrapResponse(report, run.context(), nil, []string{
		"Savings figures are planning estimates. Validate them with 'simulate_scenario' before committing budget.",
	}, nil), nil
}
