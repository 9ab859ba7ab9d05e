// Package config loads flowforge configuration from YAML files.
//
// Resolution order (highest to lowest precedence):
//  1. Explicit path passed on the command line
//  2. Project-level config (./.flowforge/config.yaml)
//  3. User-level config (~/.flowforge/config.yaml)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowforge/internal/errors"
)

// FileName is the config file name inside a .flowforge directory.
const FileName = "config.yaml"

// Config is the top-level flowforge configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	Queue  QueueConfig  `yaml:"queue"`
	Data   DataConfig   `yaml:"data"`
}

// DataConfig locates the workspace snapshot file.
type DataConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig configures API token authentication.
// Token holds the pre-derived PBKDF2 hash, Salt the salt used to
// derive it. Both are hex-encoded. Empty values disable auth.
type AuthConfig struct {
	Token string `yaml:"token"`
	Salt  string `yaml:"salt"`
}

// QueueConfig configures the prioritization queue.
type QueueConfig struct {
	PriorityWeight int `yaml:"priority_weight"`
	TypeWeight     int `yaml:"type_weight"`
	AgeWeight      int `yaml:"age_weight"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Queue: QueueConfig{
			PriorityWeight: 10,
			TypeWeight:     5,
			AgeWeight:      2,
		},
		Data: DataConfig{
			Path: filepath.Join(".flowforge", "workspace.yaml"),
		},
	}
}

// Load reads configuration from the given path. An empty path resolves
// the default locations; a missing file at a resolved default location
// is not an error and yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}

	for _, candidate := range defaultPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return loadFile(candidate)
		}
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "yaml", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{filepath.Join(".flowforge", FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".flowforge", FileName))
	}
	return paths
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "server.address must not be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "server timeouts must not be negative")
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown log format %q", c.Log.Format)).
			WithSuggestion("Use 'json' or 'text'")
	}
	if (c.Auth.Token == "") != (c.Auth.Salt == "") {
		return errors.New(errors.ErrCodeConfigInvalid, "auth.token and auth.salt must be set together")
	}
	return nil
}

// Write persists the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create config directory", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to marshal configuration", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
