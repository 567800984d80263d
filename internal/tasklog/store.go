package tasklog

import (
	"bufio"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bottleneck-mcp/internal/stats"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// ErrInvalidDatasetID is returned for ids that cannot name a file in the data directory.
var ErrInvalidDatasetID = errors.New("invalid dataset id")

var datasetIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateID accepts ids made of letters, digits, dot, dash and underscore,
// starting with a letter or digit. Such an id never leaves the data directory.
func ValidateID(id string) error {
	if !datasetIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (use letters, digits, '.', '-' or '_', starting with a letter or digit)", ErrInvalidDatasetID, id)
	}
	return nil
}

// Dataset is a named, immutable collection of task records.
type Dataset struct {
	ID       string             `json:"id"`
	Source   string             `json:"source"`
	LoadedAt time.Time          `json:"loaded_at"`
	Tasks    []stats.TaskRecord `json:"-"`
}

// Summary describes a dataset without its records.
type Summary struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Tasks    int       `json:"tasks"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Store provides thread-safe storage for task datasets, keyed by dataset ID.
type Store struct {
	mu   sync.RWMutex
	sets map[string]Dataset
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{
		sets: make(map[string]Dataset),
	}
}

// Put stores a copy of the tasks under id, replacing any previous dataset.
func (s *Store) Put(id, source string, tasks []stats.TaskRecord) Summary {
	ds := Dataset{
		ID:       id,
		Source:   source,
		LoadedAt: time.Now(),
		Tasks:    slices.Clone(tasks),
	}

	s.mu.Lock()
	s.sets[id] = ds
	s.mu.Unlock()

	log.Debug().Str("dataset", id).Int("tasks", len(tasks)).Msg("Dataset stored")
	return summarize(ds)
}

// Get returns a copy of the dataset so callers can never mutate the stored records.
func (s *Store) Get(id string) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.sets[id]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, id)
	}
	ds.Tasks = slices.Clone(ds.Tasks)
	return ds, nil
}

// List returns dataset summaries sorted by ID.
func (s *Store) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.sets))
	for _, ds := range s.sets {
		out = append(out, summarize(ds))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Count returns the number of tasks in a dataset, or 0 when it is unknown.
func (s *Store) Count(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[id].Tasks)
}

// Delete removes a dataset and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sets[id]
	delete(s.sets, id)
	return ok
}

func summarize(ds Dataset) Summary {
	return Summary{ID: ds.ID, Source: ds.Source, Tasks: len(ds.Tasks), LoadedAt: ds.LoadedAt}
}

// Load reads a dataset from <dir>/<id>.jsonl. A missing file is not an error.
// Lines that fail to parse or validate are skipped with a warning.
func (s *Store) Load(dir, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	path := filepath.Join(dir, id+".jsonl")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open dataset cache: %w", err)
	}
	defer file.Close()

	var tasks []stats.TaskRecord
	seen := make(map[int]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var m map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			log.Warn().Err(err).Str("dataset", id).Msg("Skipping invalid JSON line in cache")
			continue
		}
		t, err := toRecord(normalize(m))
		if err != nil {
			log.Warn().Err(err).Str("dataset", id).Msg("Skipping invalid task in cache")
			continue
		}
		if seen[t.ID] {
			log.Warn().Int("task_id", t.ID).Str("dataset", id).Msg("Skipping duplicate task in cache")
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading dataset cache: %w", err)
	}

	log.Info().Str("dataset", id).Int("count", len(tasks)).Msg("Loaded tasks from cache")
	s.Put(id, path, tasks)
	return nil
}

// Save persists a dataset to <dir>/<id>.jsonl through an atomic rename.
func (s *Store) Save(dir, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	ds, err := s.Get(id)
	if err != nil {
		return err
	}
	if len(ds.Tasks) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	path := filepath.Join(dir, id+".jsonl")
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp dataset file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, t := range ds.Tasks {
		if err := encoder.Encode(t); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode task: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename dataset file: %w", err)
	}

	log.Info().Str("dataset", id).Int("count", len(ds.Tasks)).Msg("Dataset saved")
	return nil
}

// LoadDir restores every <id>.jsonl dataset found in dir and returns how many
// were loaded. A missing directory yields zero.
func (s *Store) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read dataset dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".jsonl")
		if err := s.Load(dir, id); err != nil {
			log.Warn().Err(err).Str("dataset", id).Msg("Skipping unreadable dataset")
			continue
		}
		loaded++
	}
	return loaded, nil
}
