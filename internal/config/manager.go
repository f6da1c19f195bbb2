package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/pulse/pkg/log"
	"github.com/kochabx/pulse/pkg/validator"
)

// Manager manages application configuration
type Manager struct {
	mu       sync.RWMutex        // protects concurrent access to target
	viper    *viper.Viper        // viper instance for configuration management
	validate validator.Validator // validator for configuration validation
	target   any                 // target is the destination where the configuration will be unmarshalled
	loader   Loader              // loader is responsible for loading configuration
}

// Option is a function that configures a Manager
type Option func(*Manager)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(m *Manager) {
		m.viper = v
	}
}

// WithValidator sets a custom validator
func WithValidator(v validator.Validator) Option {
	return func(m *Manager) {
		m.validate = v
	}
}

// WithLoader sets the configuration loader
func WithLoader(loader Loader) Option {
	return func(m *Manager) {
		m.loader = loader
	}
}

// NewManager creates a new Manager instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "config.yaml"
//   - paths: ["."]
func NewManager(target any, opts ...Option) *Manager {
	m := &Manager{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.loader == nil {
		m.loader = NewFileLoader("config.yaml", []string{"."}, m.viper, m.validate)
	}

	return m
}

// Load reads the configuration using the configured loader
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loader.Load(m.target)
}

// Watch sets up automatic configuration reloading on change
func (m *Manager) Watch() error {
	return m.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := m.Load(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		log.Info().Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (m *Manager) GetViper() *viper.Viper {
	return m.viper
}

// Load loads the application config from the given file and paths
func Load(name string, paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := &Config{}
	v := viper.New()
	m := NewManager(cfg,
		WithViper(v),
		WithLoader(NewFileLoader(name, paths, v, validator.Validate)),
	)

	if err := m.Load(); err != nil {
		return nil, err
	}

	return cfg, nil
}
