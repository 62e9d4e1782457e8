// Package config defines the application configuration and its loader.
// Settings come from configuration files, environment variables, and
// command-line flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/AntoC-dev/recipelens/internal/extract"
)

// Config represents the complete configuration for the recipelens
// application. It covers the extract, pdf, and serve commands.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	Language string `mapstructure:"language" yaml:"language" json:"language"`

	// Recognition engine endpoint
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`

	// Extraction heuristics
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction" json:"extraction"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// RecognizerConfig locates the external text-recognition service.
type RecognizerConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// ExtractionConfig carries the tuned parser thresholds and the optional
// directory of additional term catalogs.
type ExtractionConfig struct {
	ReversalWindow     int     `mapstructure:"reversal_window" yaml:"reversal_window" json:"reversal_window"`
	SuspicionThreshold float64 `mapstructure:"suspicion_threshold" yaml:"suspicion_threshold" json:"suspicion_threshold"`
	AnchorSimilarity   float64 `mapstructure:"anchor_similarity" yaml:"anchor_similarity" json:"anchor_similarity"`
	LabelSimilarity    float64 `mapstructure:"label_similarity" yaml:"label_similarity" json:"label_similarity"`
	AnchorMergeWindow  int     `mapstructure:"anchor_merge_window" yaml:"anchor_merge_window" json:"anchor_merge_window"`
	TermsDir           string  `mapstructure:"terms_dir" yaml:"terms_dir" json:"terms_dir"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Rate limiting, zero disables
	RatePerMinute int `mapstructure:"rate_per_minute" yaml:"rate_per_minute" json:"rate_per_minute"`
	DailyUploadMB int `mapstructure:"daily_upload_mb" yaml:"daily_upload_mb" json:"daily_upload_mb"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a setting.
func DefaultConfig() Config {
	h := extract.DefaultHeuristics()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Language: "en",
		Recognizer: RecognizerConfig{
			BaseURL:    "http://localhost:8601",
			TimeoutSec: 30,
		},
		Extraction: ExtractionConfig{
			ReversalWindow:     h.ReversalWindow,
			SuspicionThreshold: h.SuspicionThreshold,
			AnchorSimilarity:   h.AnchorSimilarity,
			LabelSimilarity:    h.LabelSimilarity,
			AnchorMergeWindow:  h.AnchorMergeWindow,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     10,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"json", "yaml"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Recognizer.BaseURL == "" {
		return fmt.Errorf("recognizer base URL must be set")
	}
	if c.Recognizer.TimeoutSec <= 0 {
		return fmt.Errorf("invalid recognizer timeout: %d (must be positive)", c.Recognizer.TimeoutSec)
	}

	if err := validateThreshold(c.Extraction.AnchorSimilarity, "extraction.anchor_similarity"); err != nil {
		return err
	}
	if err := validateThreshold(c.Extraction.LabelSimilarity, "extraction.label_similarity"); err != nil {
		return err
	}
	if c.Extraction.ReversalWindow < 1 {
		return fmt.Errorf("invalid reversal window: %d (must be positive)", c.Extraction.ReversalWindow)
	}
	if c.Extraction.AnchorMergeWindow < 1 {
		return fmt.Errorf("invalid anchor merge window: %d (must be positive)", c.Extraction.AnchorMergeWindow)
	}
	if c.Extraction.SuspicionThreshold <= 0 {
		return fmt.Errorf("invalid suspicion threshold: %g (must be positive)", c.Extraction.SuspicionThreshold)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.RatePerMinute < 0 {
		return fmt.Errorf("invalid rate limit: %d (must not be negative)", c.Server.RatePerMinute)
	}
	if c.Server.DailyUploadMB < 0 {
		return fmt.Errorf("invalid daily upload limit: %d (must not be negative)", c.Server.DailyUploadMB)
	}

	return nil
}

// ToHeuristics converts the extraction settings to the parser's threshold
// struct.
func (c *Config) ToHeuristics() extract.Heuristics {
	return extract.Heuristics{
		ReversalWindow:     c.Extraction.ReversalWindow,
		SuspicionThreshold: c.Extraction.SuspicionThreshold,
		AnchorSimilarity:   c.Extraction.AnchorSimilarity,
		LabelSimilarity:    c.Extraction.LabelSimilarity,
		AnchorMergeWindow:  c.Extraction.AnchorMergeWindow,
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func validateThreshold(value float64, name string) error {
	if value <= 0 || value > 1 {
		return fmt.Errorf("invalid %s: %g (must be in (0, 1])", name, value)
	}
	return nil
}
