// Package config holds the process-wide settings of the dmdetect command
// and loads them from files, the environment and flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ericlevine/dmdetect/datamatrix/detector"
)

// Config is the complete configuration of the dmdetect command.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// DetectorConfig mirrors detector.Config in a serializable form.
type DetectorConfig struct {
	Form                  string  `mapstructure:"form" yaml:"form" json:"form"`
	TransitionCorrection  bool    `mapstructure:"transition_correction" yaml:"transition_correction" json:"transition_correction"`
	ThreePointSampler     bool    `mapstructure:"three_point_sampler" yaml:"three_point_sampler" json:"three_point_sampler"`
	CorrectCornerPosition bool    `mapstructure:"correct_corner_position" yaml:"correct_corner_position" json:"correct_corner_position"`
	Dimension             float64 `mapstructure:"dimension" yaml:"dimension" json:"dimension"`
	SamplingCorrection    float64 `mapstructure:"sampling_correction" yaml:"sampling_correction" json:"sampling_correction"`
	SamplingCorrectionTop float64 `mapstructure:"sampling_correction_top" yaml:"sampling_correction_top" json:"sampling_correction_top"`
	InitSize              int     `mapstructure:"init_size" yaml:"init_size" json:"init_size"`
	CornerInset           float64 `mapstructure:"corner_inset" yaml:"corner_inset" json:"corner_inset"`
}

// OutputConfig controls how detection reports are written.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// BatchConfig controls the batch command.
type BatchConfig struct {
	Workers     int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json", "yaml"}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	d := detector.DefaultConfig()
	return Config{
		LogLevel: "info",
		Detector: DetectorConfig{
			Form:                  d.Form.String(),
			TransitionCorrection:  d.TransitionCorrection,
			ThreePointSampler:     d.ThreePointSampler,
			CorrectCornerPosition: d.CorrectCornerPosition,
			Dimension:             d.Dimension,
			SamplingCorrection:    d.SamplingCorrection,
			SamplingCorrectionTop: d.SamplingCorrectionTop,
			InitSize:              d.InitSize,
			CornerInset:           d.CornerInset,
		},
		Output: OutputConfig{Format: "text"},
		Batch:  BatchConfig{Workers: 4},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if _, err := c.ToDetectorConfig(nil); err != nil {
		return err
	}
	return nil
}

// ToDetectorConfig converts the detector section into a detector.Config
// that logs to logger.
func (c *Config) ToDetectorConfig(logger *slog.Logger) (detector.Config, error) {
	form, err := detector.ParseForm(c.Detector.Form)
	if err != nil {
		return detector.Config{}, err
	}
	dc := detector.Config{
		Form:                  form,
		TransitionCorrection:  c.Detector.TransitionCorrection,
		ThreePointSampler:     c.Detector.ThreePointSampler,
		CorrectCornerPosition: c.Detector.CorrectCornerPosition,
		Dimension:             c.Detector.Dimension,
		SamplingCorrection:    c.Detector.SamplingCorrection,
		SamplingCorrectionTop: c.Detector.SamplingCorrectionTop,
		InitSize:              c.Detector.InitSize,
		CornerInset:           c.Detector.CornerInset,
		Logger:                logger,
	}
	if err := dc.Validate(); err != nil {
		return detector.Config{}, err
	}
	return dc, nil
}

// SlogLevel returns the log level, forced to debug in verbose mode.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
