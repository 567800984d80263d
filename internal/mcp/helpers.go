package mcp

import (
	"fmt"
	"strings"
	"time"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/tasklog"
)

// resolveDataset picks the requested dataset, falling back to the configured
// default and then to the only loaded dataset.
func (s *Server) resolveDataset(id string) (tasklog.Dataset, error) {
	if id == "" {
		id = s.cfg.DefaultDataset
	}
	if id == "" {
		loaded := s.store.List()
		switch len(loaded) {
		case 0:
			return tasklog.Dataset{}, fmt.Errorf("no dataset loaded: call 'load_dataset' or 'generate_dataset' first")
		case 1:
			id = loaded[0].ID
		default:
			ids := make([]string, len(loaded))
			for i, d := range loaded {
				ids[i] = d.ID
			}
			return tasklog.Dataset{}, fmt.Errorf("dataset_id is required when several datasets are loaded (available: %s)", strings.Join(ids, ", "))
		}
	}
	return s.store.Get(id)
}

// analysisRun bundles one pass of the first pipeline stage with its inputs.
type analysisRun struct {
	Dataset tasklog.Dataset
	Policy  policy.Policy
	Result  analysis.Result
}

func (r analysisRun) context() *ResponseContext {
	return &ResponseContext{Dataset: r.Dataset.ID, Tasks: len(r.Dataset.Tasks)}
}

func (s *Server) runAnalysis(datasetID string) (analysisRun, error) {
	ds, err := s.resolveDataset(datasetID)
	if err != nil {
		return analysisRun{}, err
	}

	pol := s.policy.Current()

	start := time.Now()
	res, err := analysis.Analyze(ds.Tasks, pol)
	s.metrics.ObserveStage("analyze", start)
	if err != nil {
		return analysisRun{}, fmt.Errorf("analysis of %q failed: %w", ds.ID, err)
	}
	s.metrics.SetEfficiency(ds.ID, res.Metrics.EfficiencyScore)

	return analysisRun{Dataset: ds, Policy: pol, Result: res}, nil
}

func (s *Server) charts(generated ...string) []string {
	if !s.cfg.EnableMermaidCharts {
		return nil
	}
	var out []string
	for _, c := range generated {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
