package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// PipelineConfig holds the orchestration parameters: the confidence gate,
// the classification label that triggers extraction, the blob name filter
// for folder discovery, and the batch fan-out bound.
type PipelineConfig struct {
	ConfidenceThreshold  float64 `toml:"confidence_threshold"`
	TargetClassification string  `toml:"target_classification"`
	FilePattern          string  `toml:"file_pattern"`
	MaxConcurrency       int     `toml:"max_concurrency"`
}

// PipelineEnv maps config fields to environment variable names for
// override injection.
type PipelineEnv struct {
	ConfidenceThreshold  string
	TargetClassification string
	FilePattern          string
	MaxConcurrency       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize(env *PipelineEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
	if overlay.TargetClassification != "" {
		c.TargetClassification = overlay.TargetClassification
	}
	if overlay.FilePattern != "" {
		c.FilePattern = overlay.FilePattern
	}
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 0.8
	}
	if c.TargetClassification == "" {
		c.TargetClassification = "Invoice"
	}
	if c.FilePattern == "" {
		c.FilePattern = `.*\.(pdf)$`
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 4
	}
}

func (c *PipelineConfig) loadEnv(env *PipelineEnv) {
	if env.ConfidenceThreshold != "" {
		if v := os.Getenv(env.ConfidenceThreshold); v != "" {
			if threshold, err := strconv.ParseFloat(v, 64); err == nil {
				c.ConfidenceThreshold = threshold
			}
		}
	}
	if env.TargetClassification != "" {
		if v := os.Getenv(env.TargetClassification); v != "" {
			c.TargetClassification = v
		}
	}
	if env.FilePattern != "" {
		if v := os.Getenv(env.FilePattern); v != "" {
			c.FilePattern = v
		}
	}
	if env.MaxConcurrency != "" {
		if v := os.Getenv(env.MaxConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxConcurrency = n
			}
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}
	if _, err := regexp.Compile(c.FilePattern); err != nil {
		return fmt.Errorf("invalid file_pattern: %w", err)
	}
	return nil
}
