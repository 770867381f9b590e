package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ilprobe/ilprobe/internal/constants"
)

// Loader handles loading and saving the configuration file.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. ILPROBE_CONFIG environment variable.
//  2. User home directory (~/).
//  3. /tmp/ilprobe-fallback (containerized environments without a home dir).
//
// The loader never returns an error. In minimal containers where no home
// directory exists, the fallback ensures Load still returns defaults with
// env var overrides applied.
func NewLoader() (*Loader, error) {
	if baseDir := os.Getenv(constants.ConfigDirEnv); baseDir != "" {
		return &Loader{
			homeDir: baseDir,
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{
			homeDir: homeDir,
		}, nil
	}

	// Fallback for containerized environments without a home directory.
	// The config file won't exist here, so Load returns defaults + env overrides.
	return &Loader{
		homeDir: "/tmp/ilprobe-fallback",
	}, nil
}

// Path returns the path to the config file.
func (l *Loader) Path() string {
	return filepath.Join(l.homeDir, constants.DefaultDir, constants.ConfigFile)
}

// Load loads the configuration.
// Returns the default config if the file doesn't exist.
// Applies environment variable overrides for layered configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()

	var cfg *Config
	// Load from file or use default
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = Default()
	} else {
		//nolint:gosec // G304: Path is from trusted config directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		cfg = Default()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply environment variable overrides (layered configuration).
	if err := MergeFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func (l *Loader) Save(cfg *Config) error {
	path := l.Path()

	// Ensure directory exists
	dir := filepath.Dir(path)
	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	//nolint:gosec // G306: Config file is not sensitive
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
