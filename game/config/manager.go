package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/city-explorer-game/game/engine"
	"github.com/wricardo/city-explorer-game/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultConfigName is the board used when none is requested
const DefaultConfigName = "classic"

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for skipped and rejected files
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager handles board configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	logger        *zap.Logger
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string, opts ...Option) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.loadDefaultConfig()
	return m, nil
}

// configID normalizes a config name or filename into the id used as cache key
func configID(name string) (string, error) {
	id := strings.TrimSuffix(name, ".json")
	if id == "" || id != filepath.Base(id) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	return id, nil
}

// LoadConfig loads a configuration by name. The built-in classic board is
// served when no classic.json exists.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id, err := configID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	config, err := m.readConfig(id)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && id == DefaultConfigName {
			config = engine.DefaultConfig()
		} else {
			return nil, err
		}
	}

	// Cache the config
	m.configs[id] = config
	return config, nil
}

// readConfig parses and validates <configDir>/<id>.json
func (m *Manager) readConfig(id string) (*engine.GameConfig, error) {
	configPath := filepath.Join(m.configDir, id+".json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, id, err)
	}
	return config, nil
}

// ListConfigs returns information about all available configurations,
// sorted by config id. Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.ConfigInfo{}
	seenDefault := false

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for config name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the config to get details
		config, err := m.LoadConfig(name)
		if err != nil {
			m.logger.Warn("skipping board config",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		if name == DefaultConfigName {
			seenDefault = true
		}

		configs = append(configs, service.NewConfigInfo(entry.Name(), name, config))
	}

	if !seenDefault {
		if config, err := m.LoadConfig(DefaultConfigName); err == nil {
			configs = append(configs, service.NewConfigInfo("", DefaultConfigName, config))
		}
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached configuration so the next load reads disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// loadDefaultConfig picks classic.json, falling back to the built-in classic board
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		m.logger.Warn("classic board config is invalid, using built-in board", zap.Error(err))
		config = engine.DefaultConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	id, err := configID(name)
	if err != nil {
		return err
	}

	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	configPath := filepath.Join(m.configDir, id+".json")

	// Marshal config to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	m.logger.Info("board config saved", zap.String("config", id), zap.String("path", configPath))
	return nil
}
