package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Loader reads a policy file, keeps the current policy, and hot-reloads it on change.
type Loader struct {
	path     string
	current  Policy
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	onChange []func(Policy)
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewLoader creates a loader for the given path. An empty path means "defaults only".
func NewLoader(path string) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:    path,
		current: Default(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load reads and validates the policy file, replacing the current policy.
func (l *Loader) Load() (Policy, error) {
	p, err := LoadFile(l.path)
	if err != nil {
		return Policy{}, err
	}

	l.mu.Lock()
	l.current = p
	l.mu.Unlock()
	return p, nil
}

// Current returns a copy of the active policy.
func (l *Loader) Current() Policy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after a successful reload.
func (l *Loader) OnChange(cb func(Policy)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, cb)
}

// Watch starts watching the policy file's directory for writes.
func (l *Loader) Watch() error {
	if l.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	l.watcher = watcher

	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	var debounce *time.Timer
	const delay = 100 * time.Millisecond

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(delay, l.reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", l.path).Msg("Policy watcher error")
		}
	}
}

func (l *Loader) reload() {
	p, err := LoadFile(l.path)
	if err != nil {
		// Keep serving the last good policy.
		log.Warn().Err(err).Str("path", l.path).Msg("Policy reload rejected")
		return
	}

	l.mu.Lock()
	l.current = p
	callbacks := append([]func(Policy){}, l.onChange...)
	l.mu.Unlock()

	log.Info().Str("path", l.path).Msg("Policy reloaded")
	for _, cb := range callbacks {
		cb(p)
	}
}

// Close stops the watcher.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// LoadFile decodes a policy file on top of Default(). Fields absent from the file keep
// their default values. A missing file yields the defaults.
func LoadFile(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("Policy file not found, using defaults")
			return p, nil
		}
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), &p); err != nil {
			return Policy{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Policy{}, fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return Policy{}, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return Policy{}, fmt.Errorf("unsupported policy format %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
