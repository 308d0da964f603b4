package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/openshelf/warden/pkg/formatting"
)

const (
	EnvModerationMaxBatchSize   = "WARDEN_MODERATION_MAX_BATCH_SIZE"
	EnvModerationAnalysisDelay  = "WARDEN_MODERATION_ANALYSIS_DELAY"
	EnvModerationMaxExtractSize = "WARDEN_MODERATION_MAX_EXTRACT_SIZE"
)

// ModerationConfig holds AI analysis scheduling and extraction limits.
type ModerationConfig struct {
	MaxBatchSize   int    `toml:"max_batch_size"`
	AnalysisDelay  string `toml:"analysis_delay"`
	MaxExtractSize string `toml:"max_extract_size"`
}

// AnalysisDelayDuration returns AnalysisDelay as a time.Duration.
func (c *ModerationConfig) AnalysisDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.AnalysisDelay)
	return d
}

// MaxExtractSizeBytes returns MaxExtractSize as a byte count.
func (c *ModerationConfig) MaxExtractSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxExtractSize)
	if err != nil {
		return 20 * 1024 * 1024 // 20MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModerationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ModerationConfig) Merge(overlay *ModerationConfig) {
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
	if overlay.AnalysisDelay != "" {
		c.AnalysisDelay = overlay.AnalysisDelay
	}
	if overlay.MaxExtractSize != "" {
		c.MaxExtractSize = overlay.MaxExtractSize
	}
}

func (c *ModerationConfig) loadDefaults() {
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 10
	}
	if c.AnalysisDelay == "" {
		c.AnalysisDelay = "1500ms"
	}
	if c.MaxExtractSize == "" {
		c.MaxExtractSize = "20MB"
	}
}

func (c *ModerationConfig) loadEnv() {
	if v := os.Getenv(EnvModerationMaxBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBatchSize = n
		}
	}
	if v := os.Getenv(EnvModerationAnalysisDelay); v != "" {
		c.AnalysisDelay = v
	}
	if v := os.Getenv(EnvModerationMaxExtractSize); v != "" {
		c.MaxExtractSize = v
	}
}

func (c *ModerationConfig) validate() error {
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max_batch_size must be positive")
	}
	if _, err := time.ParseDuration(c.AnalysisDelay); err != nil {
		return fmt.Errorf("invalid analysis_delay: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxExtractSize); err != nil {
		return fmt.Errorf("invalid max_extract_size: %w", err)
	}
	return nil
}
