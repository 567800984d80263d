package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Policy)
	}{
		{"ZeroQueueScale", func(p *Policy) { p.Scoring.QueueScale = 0 }},
		{"NegativeWeight", func(p *Policy) { p.Scoring.ProcessWeight = -0.1 }},
		{"InvertedTiers", func(p *Policy) { p.Scoring.HighAt = 90 }},
		{"EmptyWindow", func(p *Policy) { p.Anomalies.VolumeWindow = 0 }},
		{"ZeroDivisor", func(p *Policy) { p.Simulation.CriticalDivisor = 0 }},
		{"NoTimeframe", func(p *Policy) { p.Forecast.Timeframe = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
		})
	}
}

func TestLoadFile_Formats(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"policy.toml": "[scoring]\nqueue_scale = 40.0\n",
		"policy.yaml": "scoring:\n  queue_scale: 40\n",
		"policy.json": `{"scoring": {"queue_scale": 40}}`,
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			p, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, 40.0, p.Scoring.QueueScale)
			// Untouched fields keep their defaults.
			assert.Equal(t, 60.0, p.Scoring.ProcessScale)
			assert.Equal(t, 78, p.Forecast.Confidence.Queue)
		})
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadFile_InvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  process_scale: 0\n"), 0644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoader_HotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  queue_scale: 35\n"), 0644))

	l := NewLoader(path)
	defer l.Close()

	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan Policy, 1)
	l.OnChange(func(p Policy) {
		select {
		case changed <- p:
		default:
		}
	})
	require.NoError(t, l.Watch())

	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  queue_scale: 50\n"), 0644))

	select {
	case p := <-changed:
		assert.Equal(t, 50.0, p.Scoring.QueueScale)
		assert.Equal(t, 50.0, l.Current().Scoring.QueueScale)
	case <-time.After(5 * time.Second):
		t.Fatal("policy was not reloaded")
	}
}
