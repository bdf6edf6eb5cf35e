// =============================================================================
// Enrollment Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called with two
// arguments it converts an input file into a PDF document; the subcommands
// offer the same conversion explicitly, a dry inspection, and version
// information.
//
// COBRA CLI STRUCTURE:
//   rootCmd (enrollment-converter <input> <output>)
//   ├── convertCmd  (enrollment-converter convert <input> <output>)
//   ├── validateCmd (enrollment-converter validate <input>)
//   └── versionCmd  (enrollment-converter version)
//
// CONFIGURATION:
//   Settings are layered, later layers winning:
//   1. Built-in defaults
//   2. The YAML configuration file (--config, default config.yaml if present)
//   3. ENROLLMENT_* environment variables
//   4. Command-line flags
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/friesen1895/enrollment-converter/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. When empty,
// config.DefaultFileName is used if it exists.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set up by PersistentPreRunE before any command
// runs.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// envPrefix is the prefix of environment variable overrides, for example
// ENROLLMENT_OUTPUT_FLUSH_MODE.
const envPrefix = "ENROLLMENT"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. With two arguments it converts.
var rootCmd = &cobra.Command{
	Use:   "enrollment-converter <input> <output>",
	Short: "Enrollment Converter - Turn enrollment exports into PDF application forms",

	Long: `Enrollment Converter reads membership enrollments from the semicolon-separated
Windows-1252 export of the club website, or from an Excel workbook, and
writes one filled-in application form per record into a single PDF.

Example Usage:
  enrollment-converter export.csv formulare.pdf
  enrollment-converter anmeldungen.xlsx ./ausgabe/
  enrollment-converter convert export.csv formulare.pdf --flush-mode flush_per_page
  enrollment-converter validate export.csv`,

	Args:              cobra.ExactArgs(2),
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0], args[1])
	},

	SilenceUsage:  true,
	SilenceErrors: true,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "Path to the configuration file (default is config.yaml if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	flags.String("flush-mode", "", "When pages are written: flush_at_end or flush_per_page")
	flags.Bool("skip-blank-rows", false, "Drop input rows whose fields are all empty (both input formats)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = newLogger(cfg.Logging, verbose, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configuration file and applies environment and flag
// overrides through viper.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, required := cfgFile, true
	if path == "" {
		path, required = config.DefaultFileName, false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"output.flush_mode":     "flush-mode",
		"input.skip_blank_rows": "skip-blank-rows",
		"logging.level":         "log-level",
		"logging.format":        "log-format",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", flag, err)
			}
		}
	}

	applyOverrides(cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies every key set in v over the file configuration.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if v.IsSet("output.flush_mode") {
		cfg.Output.FlushMode = v.GetString("output.flush_mode")
	}
	if v.IsSet("input.skip_blank_rows") {
		skip := v.GetBool("input.skip_blank_rows")
		cfg.Input.CSVSkipBlankRows = &skip
		cfg.Input.XLSXSkipBlankRows = &skip
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.format") {
		cfg.Logging.Format = v.GetString("logging.format")
	}
}

// =============================================================================
// LOGGING
// =============================================================================

// newLogger builds the slog logger described by lc. debug forces the debug
// level.
func newLogger(lc config.LoggingConfig, debug bool, w io.Writer) *slog.Logger {
	level := parseLevel(lc.Level)
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// errNotSetUp is returned when a command runs without setup.
var errNotSetUp = errors.New("configuration not loaded")
