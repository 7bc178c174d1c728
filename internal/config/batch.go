package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvBatchWorkers     = "STANCE_BATCH_WORKERS"
	EnvBatchPreviewRows = "STANCE_BATCH_PREVIEW_ROWS"

	// MaxBatchWorkers caps concurrent completion calls per table.
	MaxBatchWorkers = 32
)

// BatchConfig controls table classification.
type BatchConfig struct {
	Workers     int `toml:"workers"`
	PreviewRows int `toml:"preview_rows"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BatchConfig) Merge(overlay *BatchConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.PreviewRows != 0 {
		c.PreviewRows = overlay.PreviewRows
	}
}

func (c *BatchConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.PreviewRows == 0 {
		c.PreviewRows = 5
	}
}

func (c *BatchConfig) loadEnv() {
	if v := os.Getenv(EnvBatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvBatchPreviewRows); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PreviewRows = n
		}
	}
}

func (c *BatchConfig) validate() error {
	if c.Workers < 1 || c.Workers > MaxBatchWorkers {
		return fmt.Errorf("workers must be between 1 and %d: %d", MaxBatchWorkers, c.Workers)
	}
	if c.PreviewRows < 1 {
		return fmt.Errorf("preview_rows must be positive: %d", c.PreviewRows)
	}
	return nil
}
