package config

import (
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Migration   MigrationConfig   `yaml:"migration"`
	Backup      BackupConfig      `yaml:"backup"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// MigrationConfig holds planning and execution settings
type MigrationConfig struct {
	// TargetDir is the root of the organized hierarchy
	TargetDir string `yaml:"target_dir"`

	// RulesFile points to a pipe-delimited rule catalog; empty uses the
	// built-in defaults
	RulesFile string `yaml:"rules_file"`

	// LargeFileThreshold annotates (never excludes) files above this many bytes
	LargeFileThreshold int64 `yaml:"large_file_threshold"`

	// DryRun is the default posture; commits always need explicit confirmation
	DryRun bool `yaml:"dry_run"`

	// ManifestDir is where new manifests are written
	ManifestDir string `yaml:"manifest_dir"`
}

// BackupConfig holds the backup posture. The tool only ever checks that a
// backup artifact exists; creating one is someone else's job.
type BackupConfig struct {
	Required bool   `yaml:"required"`
	Path     string `yaml:"path"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second while hashing, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars while hashing
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	Dir     string `yaml:"dir"`    // Directory for run logs (empty = manifest dir)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Migration: MigrationConfig{
			TargetDir:          "",
			RulesFile:          "",
			LargeFileThreshold: 100 * models.MB,
			DryRun:             true,
			ManifestDir:        ".",
		},
		Backup: BackupConfig{
			Required: true,
			Path:     "",
		},
		Performance: PerformanceConfig{
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "info",
			Dir:     "",
		},
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"__pycache__/",
			".DS_Store",
			"Thumbs.db",
			"desktop.ini",
			"*.tmp",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Migration.LargeFileThreshold < 0 {
		return &models.ValidationError{
			Field:   "migration.large_file_threshold",
			Message: "must not be negative",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
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
