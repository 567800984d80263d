package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesBothSinks(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := New(true, &console, true, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Debug().Str("dataset", "weekly").Msg("Dataset stored")

	if !strings.Contains(console.String(), "Dataset stored") {
		t.Errorf("console output missing message: %q", console.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"dataset":"weekly"`) {
		t.Errorf("file output missing structured field: %s", data)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	var console bytes.Buffer

	logger, err := New(false, &console, true, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Debug().Msg("hidden")
	if console.Len() != 0 {
		t.Errorf("debug message leaked at info level: %q", console.String())
	}
}

func TestNew_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(false, &bytes.Buffer{}, true, filepath.Join(file, "logs")); err == nil {
		t.Error("expected an error for a log dir below a regular file")
	}
}
