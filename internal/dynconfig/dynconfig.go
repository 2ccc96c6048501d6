// Package dynconfig serves configuration that may change while the process
// runs. Readers take an immutable Snapshot per request.
package dynconfig

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PaymentsConfig gates payment addresses by phone number prefix.
type PaymentsConfig struct {
	DisallowedPrefixes []string `mapstructure:"disallowedPrefixes"`
}

// Snapshot is one parsed version of the dynamic configuration.
type Snapshot struct {
	Payments PaymentsConfig `mapstructure:"payments"`
}

// PaymentsDisallowed reports whether e164 starts with a disallowed prefix.
func (s *Snapshot) PaymentsDisallowed(e164 string) bool {
	if s == nil {
		return false
	}
	for _, prefix := range s.Payments.DisallowedPrefixes {
		if strings.HasPrefix(e164, prefix) {
			return true
		}
	}
	return false
}

func (s *Snapshot) validate() error {
	for i, prefix := range s.Payments.DisallowedPrefixes {
		prefix = strings.TrimSpace(prefix)
		if len(prefix) < 2 || prefix[0] != '+' || strings.Trim(prefix[1:], "0123456789") != "" {
			return fmt.Errorf("payments.disallowedPrefixes[%d]: %q is not a +<digits> prefix", i, prefix)
		}
		s.Payments.DisallowedPrefixes[i] = prefix
	}
	return nil
}

// Manager holds the current snapshot and swaps it when the file changes.
type Manager struct {
	path    string
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Load reads path once. An empty path yields a manager with an empty
// snapshot that never changes.
func Load(path string, opts ...Option) (*Manager, error) {
	m := &Manager{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	if path == "" {
		m.current.Store(&Snapshot{})
		return m, nil
	}
	snapshot, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	m.current.Store(snapshot)
	return m, nil
}

// NewStatic returns a manager that always serves snapshot.
func NewStatic(snapshot Snapshot) *Manager {
	m := &Manager{logger: slog.Default()}
	m.current.Store(&snapshot)
	return m
}

// Snapshot returns the current configuration. Callers must not modify it.
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// Watch re-reads the file whenever it changes on disk.
func (m *Manager) Watch() {
	if m.path == "" {
		return
	}
	v := viper.New()
	v.SetConfigFile(m.path)
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := m.reload(); err != nil {
			m.logger.Error("dynamic config reload failed, keeping previous", "path", e.Name, "error", err)
			return
		}
		m.logger.Info("dynamic config reloaded", "path", e.Name)
	})
	v.WatchConfig()
}

// reload parses the file into a new snapshot. On error the previous
// snapshot stays in place.
func (m *Manager) reload() error {
	snapshot, err := readSnapshot(m.path)
	if err != nil {
		return err
	}
	m.current.Store(snapshot)
	return nil
}

func readSnapshot(path string) (*Snapshot, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read dynamic config %s: %w", path, err)
	}
	var snapshot Snapshot
	if err := v.Unmarshal(&snapshot); err != nil {
		return nil, fmt.Errorf("decode dynamic config %s: %w", path, err)
	}
	if err := snapshot.validate(); err != nil {
		return nil, fmt.Errorf("validate dynamic config %s: %w", path, err)
	}
	return &snapshot, nil
}
