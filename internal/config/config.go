// =============================================================================
// Enrollment Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// Everything has a built-in default, so the configuration file is optional:
// a missing default file yields Default(), a missing explicit file is an
// error.
//
// CONFIGURATION SECTIONS:
//   1. input:   blank-row policy per input pipeline
//   2. output:  flush policy, output file naming, verification
//   3. render:  fonts and the shrink-to-fit parameters
//   4. logging: level and handler format
//
// Command-line flags and ENROLLMENT_* environment variables are layered on
// top of the file by the cmd package.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// FLUSH MODES
// =============================================================================

const (
	// FlushAtEnd buffers every page and writes the document once.
	FlushAtEnd = "flush_at_end"

	// FlushPerPage writes every page to storage as soon as it is drawn and
	// joins the pages into the output document at the end.
	FlushPerPage = "flush_per_page"
)

// DefaultFileName is the configuration file looked up when --config is not
// given.
const DefaultFileName = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig controls the record readers.
type InputConfig struct {
	// CSVSkipBlankRows drops CSV data lines whose fields are all empty.
	// The CSV pipeline keeps them by default: a blank line still becomes a
	// (blank) page.
	// Default: false
	CSVSkipBlankRows *bool `yaml:"csv_skip_blank_rows"`

	// XLSXSkipBlankRows drops worksheet rows whose cells are all empty.
	// Default: true
	XLSXSkipBlankRows *bool `yaml:"xlsx_skip_blank_rows"`
}

// OutputConfig controls document assembly.
type OutputConfig struct {
	// FlushMode is FlushAtEnd or FlushPerPage.
	// Default: "flush_at_end"
	FlushMode string `yaml:"flush_mode"`

	// FileNameFormat names the output file when the output path is a
	// directory. Placeholders: {original}, {timestamp}, {date}, {uuid}.
	// Default: "{original}_{timestamp}.pdf"
	FileNameFormat string `yaml:"file_name_format"`

	// VerifyPageCount re-reads the written document and fails when its page
	// count differs from the number of records.
	// Default: true
	VerifyPageCount *bool `yaml:"verify_page_count"`
}

// RenderConfig controls the page template.
type RenderConfig struct {
	// FontFamily is a PDF core font family used for all text.
	// Default: "Helvetica"
	FontFamily string `yaml:"font_family"`

	// StartFontSize is the point size field values are first tried at.
	// Default: 12
	StartFontSize int `yaml:"start_font_size"`

	// MinFontSize is the floor of the shrink-to-fit search.
	// Default: 6
	MinFontSize int `yaml:"min_font_size"`

	// Padding is the horizontal inset of field values inside their box, in
	// points.
	// Default: 5
	Padding float64 `yaml:"padding"`

	// Title and Subtitle are printed centred at the top of every page.
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// LoggingConfig controls the slog handler built by the cmd package.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// PARAMETERS:
//   - path: The configuration file path.
//   - required: Whether a missing file is an error. When false a missing
//     file yields Default().
//
// RETURNS:
//   - The configuration with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML document into a Config, applies defaults and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.CSVSkipBlankRows == nil {
		cfg.Input.CSVSkipBlankRows = boolPtr(false)
	}
	if cfg.Input.XLSXSkipBlankRows == nil {
		cfg.Input.XLSXSkipBlankRows = boolPtr(true)
	}

	if cfg.Output.FlushMode == "" {
		cfg.Output.FlushMode = FlushAtEnd
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "{original}_{timestamp}.pdf"
	}
	if cfg.Output.VerifyPageCount == nil {
		cfg.Output.VerifyPageCount = boolPtr(true)
	}

	if cfg.Render.FontFamily == "" {
		cfg.Render.FontFamily = "Helvetica"
	}
	if cfg.Render.StartFontSize == 0 {
		cfg.Render.StartFontSize = 12
	}
	if cfg.Render.MinFontSize == 0 {
		cfg.Render.MinFontSize = 6
	}
	if cfg.Render.Padding == 0 {
		cfg.Render.Padding = 5
	}
	if cfg.Render.Title == "" {
		cfg.Render.Title = `Berliner Schwimmverein "Friesen 1895" e. V.`
	}
	if cfg.Render.Subtitle == "" {
		cfg.Render.Subtitle = "Aufnahmeantrag"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	switch c.Output.FlushMode {
	case FlushAtEnd, FlushPerPage:
	default:
		return fmt.Errorf("unknown flush_mode %q (want %s or %s)", c.Output.FlushMode, FlushAtEnd, FlushPerPage)
	}

	if c.Render.MinFontSize < 1 {
		return fmt.Errorf("min_font_size must be at least 1, got %d", c.Render.MinFontSize)
	}
	if c.Render.StartFontSize < c.Render.MinFontSize {
		return fmt.Errorf("start_font_size %d is below min_font_size %d", c.Render.StartFontSize, c.Render.MinFontSize)
	}
	if c.Render.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %g", c.Render.Padding)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	return nil
}

// SkipBlankRows returns the blank-row policy for the given pipeline
// ("csv" or "xlsx").
func (c *Config) SkipBlankRows(pipeline string) bool {
	switch pipeline {
	case "xlsx":
		return c.Input.XLSXSkipBlankRows != nil && *c.Input.XLSXSkipBlankRows
	default:
		return c.Input.CSVSkipBlankRows != nil && *c.Input.CSVSkipBlankRows
	}
}

// VerifyPageCount reports whether the written document is re-read and its
// page count checked.
func (c *Config) VerifyPageCount() bool {
	return c.Output.VerifyPageCount == nil || *c.Output.VerifyPageCount
}

func boolPtr(b bool) *bool {
	return &b
}
