package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user-none/eblitui/cheevos/harness"
	"github.com/user-none/eblitui/cheevos/rules"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Suite string
}

// caseEntry is one listed case. Error is set when the condition does not
// parse.
type caseEntry struct {
	Name          string `json:"name"`
	MemAddr       string `json:"memaddr"`
	ExpectTrigger bool   `json:"expect_trigger"`
	Error         string `json:"error,omitempty"`
}

func newCaseEntry(name, memaddr string, expect bool) caseEntry {
	e := caseEntry{Name: name, MemAddr: memaddr, ExpectTrigger: expect}
	if err := rules.Validate(memaddr); err != nil {
		e.Error = err.Error()
	}
	return e
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cases of a suite",
		Long: `List the cases of the built-in standard suite, or of a YAML suite file.
Conditions that do not parse are marked in the STATUS column.

Examples:
  cheevos-harness list
  cheevos-harness list --suite regression.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCases(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "YAML suite file (default: standard suite)")

	return cmd
}

func listCases(opts *ListOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	var entries []caseEntry
	if opts.Suite == "" {
		for _, c := range harness.StandardCases() {
			entries = append(entries, newCaseEntry(c.Name, c.MemAddr, c.ExpectTrigger))
		}
	} else {
		s, err := harness.LoadSuite(opts.Suite)
		if err != nil {
			return exitf(ExitCommandError, "failed to load suite %s: %w", opts.Suite, err)
		}
		for _, c := range s.Cases {
			entries = append(entries, newCaseEntry(c.Name, c.MemAddr, c.ExpectTrigger))
		}
	}

	out := cmd.OutOrStdout()
	if cfg.Harness.Format == "json" {
		if err := harness.WriteJSON(out, entries); err != nil {
			return exitf(ExitCommandError, "failed to write cases: %w", err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMEMADDR\tEXPECT\tSTATUS")
	for _, e := range entries {
		expect := "no-trigger"
		if e.ExpectTrigger {
			expect = "trigger"
		}
		status := "ok"
		if e.Error != "" {
			status = e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.MemAddr, expect, status)
	}
	return tw.Flush()
}
