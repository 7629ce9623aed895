package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/snapshot"
)

// Config represents the application configuration
type Config struct {
	Diff        DiffConfig        `yaml:"diff"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exit        ExitConfig        `yaml:"exit"`
}

// DiffConfig holds comparison settings
type DiffConfig struct {
	Strict       bool     `yaml:"strict"`
	ChunkSizeKiB int      `yaml:"chunk_size_kib"`
	Exclude      []string `yaml:"exclude"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int    `yaml:"max_workers"`
	BandwidthLimit string `yaml:"bandwidth_limit"` // e.g. "10MB", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar while merging
	Summary  bool   `yaml:"summary"`  // Print a per-category table
	Quiet    bool   `yaml:"quiet"`    // Suppress diagnostics on stderr
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// ExitConfig controls the process exit status
type ExitConfig struct {
	FailOnError bool `yaml:"fail_on_error"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Diff: DiffConfig{
			Strict:       false,
			ChunkSizeKiB: 16,
			Exclude:      []string{},
		},
		Performance: PerformanceConfig{
			MaxWorkers:     runtime.NumCPU(),
			BandwidthLimit: "",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Summary:  false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "warn",
			File:   "",
		},
		Exit: ExitConfig{
			FailOnError: false,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Diff.ChunkSizeKiB < 1 {
		return &models.ValidationError{
			Field:   "diff.chunk_size_kib",
			Message: "must be at least 1",
		}
	}

	if c.Diff.ChunkSizeKiB > models.MaxChunkSize/1024 {
		return &models.ValidationError{
			Field:   "diff.chunk_size_kib",
			Message: fmt.Sprintf("must be at most %d", models.MaxChunkSize/1024),
		}
	}

	if err := snapshot.ValidatePatterns(c.Diff.Exclude); err != nil {
		return &models.ValidationError{
			Field:   "diff.exclude",
			Message: err.Error(),
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if _, err := ParseBandwidth(c.Performance.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// ParseBandwidth parses a throughput such as "10MB" or "512KiB" into bytes
// per second. An empty string or "0" means unlimited.
func ParseBandwidth(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/s"), "ps")
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}
	return int64(n), nil
}

// NewOperation builds the immutable run configuration for one diff
func (c *Config) NewOperation(sourcePath, destPath string, merge bool) (models.DiffOperation, error) {
	if err := c.Validate(); err != nil {
		return models.DiffOperation{}, err
	}

	bandwidth, err := ParseBandwidth(c.Performance.BandwidthLimit)
	if err != nil {
		return models.DiffOperation{}, err
	}

	op := models.DiffOperation{
		ID:              uuid.New().String(),
		SourcePath:      sourcePath,
		DestPath:        destPath,
		Strict:          c.Diff.Strict,
		ChunkSize:       c.Diff.ChunkSizeKiB * 1024,
		Merge:           merge,
		ExcludePatterns: append([]string(nil), c.Diff.Exclude...),
		MaxWorkers:      c.Performance.MaxWorkers,
		BandwidthLimit:  bandwidth,
		FailOnError:     c.Exit.FailOnError,
		CreatedAt:       time.Now(),
	}

	return op, op.Validate()
}
