package simulation

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/stats"
)

// Compare simulates every scenario against the same baseline concurrently and
// returns the results ranked by ROI, best first. Equal ROI keeps input order.
func Compare(ctx context.Context, base analysis.AggregateMetrics, scenarios []Scenario, p policy.Simulation) ([]Result, error) {
	results := make([]Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Simulate(base, s, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.CostImpact.ROI, a.CostImpact.ROI)
	})
	return results, nil
}

// MetricDelta compares one headline metric before and after a scenario.
type MetricDelta struct {
	Label         string  `json:"label"`
	Original      float64 `json:"original"`
	Projected     float64 `json:"projected"`
	PercentChange float64 `json:"percentChange"`
	Improved      bool    `json:"improved"`
}

func newDelta(label string, original, projected float64, lowerIsBetter bool) MetricDelta {
	change := projected - original
	pct := 0.0
	if original > 0 {
		pct = stats.Round1(change / original * 100)
	}
	improved := change > 0
	if lowerIsBetter {
		improved = change < 0
	}
	return MetricDelta{Label: label, Original: original, Projected: projected, PercentChange: pct, Improved: improved}
}

// Delta summarises the result as before/after pairs for the metrics users watch.
func Delta(r Result) []MetricDelta {
	o, p := r.OriginalMetrics, r.ProjectedMetrics
	return []MetricDelta{
		newDelta("Queue Time", o.AvgQueueTime, p.AvgQueueTime, true),
		newDelta("Process Time", o.AvgProcessTime, p.AvgProcessTime, true),
		newDelta("Efficiency Score", float64(o.EfficiencyScore), float64(p.EfficiencyScore), false),
		newDelta("Critical Bottlenecks", float64(o.CriticalBottlenecks), float64(p.CriticalBottlenecks), true),
	}
}
