package tasklog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bottleneck-mcp/internal/stats"
)

var ErrInvalidRecord = errors.New("invalid task record")

// Format identifies a task file encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported task file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and validates every task in the file.
func LoadFile(path string) ([]stats.TaskRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer f.Close()

	tasks, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), stats.ErrEmptyDataset)
	}
	return tasks, nil
}

// Decode parses tasks in the given format. Any malformed record fails the whole
// decode with ErrInvalidRecord and its position.
func Decode(r io.Reader, format Format) ([]stats.TaskRecord, error) {
	var tasks []stats.TaskRecord
	var err error
	switch format {
	case FormatJSONL:
		tasks, err = decodeJSONL(r)
	case FormatCSV:
		tasks, err = decodeCSV(r)
	case FormatJSON:
		tasks, err = decodeJSONArray(r)
	default:
		return nil, fmt.Errorf("unsupported task format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := checkUniqueIDs(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// checkUniqueIDs rejects a batch in which two records share a task id.
func checkUniqueIDs(tasks []stats.TaskRecord) error {
	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if first, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: task_id %d appears in records %d and %d", ErrInvalidRecord, t.ID, first+1, i+1)
		}
		seen[t.ID] = i
	}
	return nil
}

func decodeJSONL(r io.Reader) ([]stats.TaskRecord, error) {
	var tasks []stats.TaskRecord
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ErrInvalidRecord, err)
		}
		t, err := toRecord(normalize(m))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tasks = append(tasks, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading tasks: %w", err)
	}
	return tasks, nil
}

func decodeJSONArray(r io.Reader) ([]stats.TaskRecord, error) {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tasks := make([]stats.TaskRecord, 0, len(items))
	for i, m := range items {
		t, err := toRecord(normalize(m))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeCSV(r io.Reader) ([]stats.TaskRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[int]string, len(header))
	for i, h := range header {
		if f, ok := canonicalField(h); ok {
			columns[i] = f
		}
	}

	var tasks []stats.TaskRecord
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %v", row, ErrInvalidRecord, err)
		}

		m := make(map[string]any, len(columns))
		for i, field := range columns {
			if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w: %s is not a number", row, ErrInvalidRecord, field)
			}
			m[field] = v
		}

		t, err := toRecord(m)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// WriteCSV writes rows (header first) as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
