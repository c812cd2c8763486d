package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/user-none/eblitui/cheevos/config"
	"github.com/user-none/eblitui/cheevos/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Suites     []string // YAML suite files
	Mode       string   // direct, raw or mapped
	Frames     int      // settle frames
	MemorySize int      // synthetic memory size
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run conformance suites",
		Long: `Run the built-in standard suite, or the given YAML suites, and report
each case.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (bad flags, config or suite file)

Examples:
  cheevos-harness run
  cheevos-harness run --mode mapped --frames 10
  cheevos-harness run --suite regression.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Suites, "suite", nil, "YAML suite file (repeatable)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "memory access mode (direct|raw|mapped)")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "settle frames before the trigger write")
	cmd.Flags().IntVar(&opts.MemorySize, "memory-size", 0, "synthetic memory size in bytes")

	return cmd
}

// resolveConfig merges the config file with command flags. Flags win.
func resolveConfig(opts *RunOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("suite") {
		cfg.Harness.Suites = opts.Suites
	}
	if flags.Changed("mode") {
		cfg.Harness.Mode = opts.Mode
	}
	if flags.Changed("frames") {
		cfg.Harness.Frames = opts.Frames
	}
	if flags.Changed("memory-size") {
		cfg.Harness.MemorySize = opts.MemorySize
	}

	if problems := config.Validate(cfg); len(problems) > 0 {
		return cfg, exitf(ExitCommandError, "invalid settings: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func runSuites(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())

	mode, err := harness.ParseMode(cfg.Harness.Mode)
	if err != nil {
		return exitf(ExitCommandError, "invalid mode: %w", err)
	}

	// Load every suite before running any so a bad file fails fast.
	suites := make([]*harness.Suite, 0, len(cfg.Harness.Suites))
	for _, path := range cfg.Harness.Suites {
		s, err := harness.LoadSuite(path)
		if err != nil {
			return exitf(ExitCommandError, "failed to load suite %s: %w", path, err)
		}
		suites = append(suites, s)
	}

	tester := &harness.Tester{
		Frames:     cfg.Harness.Frames,
		MemorySize: cfg.Harness.MemorySize,
		Mode:       mode,
		Logger:     &logger,
	}

	var summary harness.Summary
	if len(suites) == 0 {
		summary.Add(tester.RunAll(harness.StandardCases()))
	}
	for _, s := range suites {
		summary.Add(tester.RunSuite(s))
	}

	out := cmd.OutOrStdout()
	if cfg.Harness.Format == "json" {
		err = harness.WriteJSON(out, summary)
	} else {
		err = harness.WriteSummaryText(out, summary)
	}
	if err != nil {
		return exitf(ExitCommandError, "failed to write report: %w", err)
	}

	if summary.Failed > 0 {
		return exitf(ExitFailure, "%d case(s) failed", summary.Failed)
	}
	return nil
}
