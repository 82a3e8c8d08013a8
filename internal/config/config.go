// Package config loads the application configuration from TOML with
// environment variable overrides. A base file establishes defaults and an
// optional overlay file, named by DOCPIPE_CONFIG, is merged over it before
// environment overrides apply.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/banerRana/docpipe/internal/genai"
	"github.com/banerRana/docpipe/pkg/database"
	"github.com/banerRana/docpipe/pkg/storage"
)

// OverlayEnv names the environment variable holding an overlay config path.
const OverlayEnv = "DOCPIPE_CONFIG"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Database database.Config `toml:"database"`
	Storage  storage.Config  `toml:"storage"`
	Model    genai.Config    `toml:"model"`
	Pipeline PipelineConfig  `toml:"pipeline"`
}

// Load reads the base config file, merges the overlay named by
// DOCPIPE_CONFIG if set, then finalizes with environment overrides.
// An empty path starts from zero-value defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if overlay := os.Getenv(OverlayEnv); overlay != "" {
		oc := &Config{}
		if err := readFile(overlay, oc); err != nil {
			return nil, err
		}
		cfg.Merge(oc)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay, section by section.
func (c *Config) Merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Model.Merge(&overlay.Model)
	c.Pipeline.Merge(&overlay.Pipeline)
}

// Finalize applies defaults, environment overrides, and validation to
// every section.
func (c *Config) Finalize() error {
	if err := c.Server.Finalize(&ServerEnv{
		Host:            "DOCPIPE_SERVER_HOST",
		Port:            "DOCPIPE_SERVER_PORT",
		ShutdownTimeout: "DOCPIPE_SERVER_SHUTDOWN_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Database.Finalize(&database.Env{
		Host:            "DOCPIPE_DATABASE_HOST",
		Port:            "DOCPIPE_DATABASE_PORT",
		Name:            "DOCPIPE_DATABASE_NAME",
		User:            "DOCPIPE_DATABASE_USER",
		Password:        "DOCPIPE_DATABASE_PASSWORD",
		SSLMode:         "DOCPIPE_DATABASE_SSL_MODE",
		MaxConns:        "DOCPIPE_DATABASE_MAX_CONNS",
		MinConns:        "DOCPIPE_DATABASE_MIN_CONNS",
		ConnMaxLifetime: "DOCPIPE_DATABASE_CONN_MAX_LIFETIME",
		ConnTimeout:     "DOCPIPE_DATABASE_CONN_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Storage.Finalize(&storage.Env{
		AccountName:      "DOCPIPE_STORAGE_ACCOUNT_NAME",
		ConnectionString: "DOCPIPE_STORAGE_CONNECTION_STRING",
	}); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Model.Finalize(&genai.Env{
		BaseURL: "DOCPIPE_MODEL_BASE_URL",
		APIKey:  "DOCPIPE_MODEL_API_KEY",
		Model:   "DOCPIPE_MODEL_NAME",
		Timeout: "DOCPIPE_MODEL_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("model config: %w", err)
	}

	if err := c.Pipeline.Finalize(&PipelineEnv{
		ConfidenceThreshold:  "DOCPIPE_PIPELINE_CONFIDENCE_THRESHOLD",
		TargetClassification: "DOCPIPE_PIPELINE_TARGET_CLASSIFICATION",
		FilePattern:          "DOCPIPE_PIPELINE_FILE_PATTERN",
		MaxConcurrency:       "DOCPIPE_PIPELINE_MAX_CONCURRENCY",
	}); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	return nil
}
