package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"bottleneck-mcp/cmd/mockgen/engine"
	"bottleneck-mcp/internal/tasklog"
)

func (s *Server) handleLoadDataset(_ context.Context, in LoadDatasetInput) (any, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	id := in.DatasetID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))
	}
	if err := tasklog.ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w; pass a dataset_id", err)
	}

	tasks, err := tasklog.LoadFile(in.Path)
	if err != nil {
		return nil, err
	}

	summary := s.store.Put(id, in.Path, tasks)
	s.metrics.SetDatasets(len(s.store.List()))
	log.Info().Str("dataset", id).Int("tasks", len(tasks)).Str("path", in.Path).Msg("Dataset loaded")

	var diagnostics []string
	if in.Persist {
		if s.cfg.CacheDir == "" {
			diagnostics = append(diagnostics, "Persistence skipped: no data directory configured.")
		} else if err := s.store.Save(s.cfg.CacheDir, id); err != nil {
			return nil, fmt.Errorf("dataset loaded but could not be saved: %w", err)
		}
	}

	return WrapResponse(summary, &ResponseContext{Dataset: id, Tasks: len(tasks)}, diagnostics, []string{
		"Call 'analyze_bottlenecks' to score the tasks and compute the aggregate metrics.",
	}, nil), nil
}

func (s *Server) handleGenerateDataset(_ context.Context, in GenerateDatasetInput) (any, error) {
	cfg := engine.GeneratorConfig{
		Scenario:     in.Scenario,
		Distribution: in.Distribution,
		Count:        in.Count,
		Seed:         in.Seed,
	}
	if cfg.Scenario == "" {
		cfg.Scenario = engine.ScenarioSteady
	}
	if cfg.Count == 0 {
		cfg.Count = 200
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := in.DatasetID
	if id == "" {
		id = "mock-" + cfg.Scenario
	}
	if err := tasklog.ValidateID(id); err != nil {
		return nil, err
	}

	tasks := engine.Generate(cfg)
	summary := s.store.Put(id, "generated:"+cfg.Scenario, tasks)
	s.metrics.SetDatasets(len(s.store.List()))

	return WrapResponse(summary, &ResponseContext{Dataset: id, Tasks: len(tasks)},
		[]string{"Synthetic data: results describe the generator, not a real process."},
		[]string{"Call 'analyze_bottlenecks' next."}, nil), nil
}

func (s *Server) handleUnloadDataset(_ context.Context, in UnloadDatasetInput) (any, error) {
	if in.DatasetID == "" {
		return nil, fmt.Errorf("dataset_id is required")
	}

	tasks := s.store.Count(in.DatasetID)
	if !s.store.Delete(in.DatasetID) {
		return nil, fmt.Errorf("%w: %s", tasklog.ErrDatasetNotFound, in.DatasetID)
	}
	s.metrics.SetDatasets(len(s.store.List()))
	log.Info().Str("dataset", in.DatasetID).Int("tasks", tasks).Msg("Dataset unloaded")

	return WrapResponse(map[string]any{"dataset_id": in.DatasetID, "tasks_released": tasks}, nil, nil, nil, nil), nil
}

func (s *Server) handleListDatasets(_ context.Context, _ noInput) (any, error) {
	datasets := s.store.List()

	var guidance []string
	if len(datasets) == 0 {
		guidance = append(guidance, "No datasets loaded. Use 'load_dataset' for real data or 'generate_dataset' for a demo.")
	}
	return WrapResponse(datasets, nil, nil, guidance, nil), nil
}
