package main

import (
	"io"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user-none/eblitui/cheevos/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"; empty uses the config file value
	Config  string // path to a TOML config file
}

// NewRootCommand creates the root command for the harness CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cheevos-harness",
		Short: "Achievement condition conformance harness",
		Long: `Run achievement condition expressions against synthetic memory and
check that each one fires exactly when expected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !slices.Contains(config.ReportFormats, opts.Format) {
				return exitf(ExitCommandError, "invalid format %q: must be one of %v", opts.Format, config.ReportFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every case at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a TOML config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, exitf(ExitCommandError, "failed to load config: %w", err)
	}
	if opts.Format != "" {
		cfg.Harness.Format = opts.Format
	}
	if opts.Verbose {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	return cfg, nil
}

// newLogger builds the process logger from cfg and installs it as the
// global zerolog logger.
func newLogger(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	logger = logger.Level(level).With().Timestamp().Str("app", "cheevos-harness").Logger()
	log.Logger = logger
	return logger
}
