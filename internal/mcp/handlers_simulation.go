package mcp

import (
	"context"
	"time"

	"bottleneck-mcp/internal/simulation"
	"bottleneck-mcp/internal/visuals"
)

func (s *Server) handleListScenarios(_ context.Context, _ noInput) (any, error) {
	return WrapResponse(simulation.Presets(), nil, nil, []string{
		"Pass a scenario ID to 'simulate_scenario', or supply custom parameters instead.",
	}, nil), nil
}

// SimulationReport is the payload of simulate_scenario.
type SimulationReport struct {
	Result simulation.Result        `json:"result"`
	Deltas []simulation.MetricDelta `json:"deltas"`
}

func (s *Server) handleSimulateScenario(_ context.Context, in SimulateInput) (any, error) {
	var scenario simulation.Scenario
	switch {
	case in.Parameters != nil:
		name := in.Name
		if name == "" {
			name = "Custom Scenario"
		}
		scenario = simulation.NewCustomScenario(name, simulation.Parameters{
			QueueCapacityChange: in.Parameters.QueueCapacityChange,
			AutomationLevel:     in.Parameters.AutomationLevel,
			StaffingChange:      in.Parameters.StaffingChange,
			ProcessRedesign:     in.Parameters.ProcessRedesign,
		})
	case in.ScenarioID != "":
		preset, err := simulation.FindPreset(in.ScenarioID)
		if err != nil {
			return nil, err
		}
		scenario = preset
	default:
		return nil, errScenarioRequired
	}

	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := simulation.Simulate(run.Result.Metrics, scenario, run.Policy.Simulation)
	s.metrics.ObserveStage("simulate", start)

	var guidance []string
	if len(res.Risks) > 0 {
		guidance = append(guidance, "Present the listed risks alongside the savings figures.")
	}
	return WrapResponse(SimulationReport{Result: res, Deltas: simulation.Delta(res)}, run.context(), nil, guidance, nil), nil
}

// ComparisonReport is the payload of compare_scenarios.
type ComparisonReport struct {
	Ranking []simulation.Result `json:"ranking"`
	Best    string              `json:"bestScenario"`
}

func (s *Server) handleCompareScenarios(ctx context.Context, in CompareInput) (any, error) {
	scenarios := simulation.Presets()
	if len(in.ScenarioIDs) > 0 {
		scenarios = scenarios[:0:0]
		for _, id := range in.ScenarioIDs {
			preset, err := simulation.FindPreset(id)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, preset)
		}
	}

	run, err := s.runAnalysis(in.DatasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := simulation.Compare(ctx, run.Result.Metrics, scenarios, run.Policy.Simulation)
	s.metrics.ObserveStage("compare", start)
	if err != nil {
		return nil, err
	}

	report := ComparisonReport{Ranking: results}
	if len(results) > 0 {
		report.Best = results[0].Scenario.ID
	}
	charts := s.charts(visuals.GenerateScenarioChart(results))

	return WrapResponse(report, run.context(), nil, []string{
		"Ranking is by ROI only. Weigh the risks of each scenario before recommending one.",
	}, charts), nil
}
