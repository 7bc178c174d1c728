// Package config loads service configuration from TOML files, environment
// overlays, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/stance/pkg/completion"
	"github.com/JaimeStill/stance/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStanceEnv     = "STANCE_ENV"
	EnvStanceVersion = "STANCE_VERSION"
)

var completionEnv = &completion.Env{
	BaseURL:   "STANCE_COMPLETION_BASE_URL",
	Model:     "STANCE_COMPLETION_MODEL",
	MaxTokens: "STANCE_COMPLETION_MAX_TOKENS",
	Timeout:   "STANCE_COMPLETION_TIMEOUT",
	Token:     "STANCE_COMPLETION_TOKEN",
}

var storageEnv = &storage.Env{
	ContainerName:    "STANCE_STORAGE_CONTAINER_NAME",
	ConnectionString: "STANCE_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the stance service and CLI.
type Config struct {
	Server     ServerConfig      `toml:"server"`
	API        APIConfig         `toml:"api"`
	Completion completion.Config `toml:"completion"`
	Batch      BatchConfig       `toml:"batch"`
	Storage    storage.Config    `toml:"storage"`
	Log        LogConfig         `toml:"log"`
	Version    string            `toml:"version"`
}

// Env returns the STANCE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStanceEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads config.toml from the working directory. See LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom reads the base config at path (if present), merges the
// config.<STANCE_ENV>.toml overlay from the same directory (if present),
// and finalizes all values. Without any file, defaults and environment
// variables provide all configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Completion.Merge(&overlay.Completion)
	c.Batch.Merge(&overlay.Batch)
	c.Storage.Merge(&overlay.Storage)
	c.Log.Merge(&overlay.Log)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if v := os.Getenv(EnvStanceVersion); v != "" {
		c.Version = v
	}

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Completion.Finalize(completionEnv); err != nil {
		return fmt.Errorf("completion: %w", err)
	}
	if err := c.Batch.Finalize(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvStanceEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
