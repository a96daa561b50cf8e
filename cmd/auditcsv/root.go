package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for auditcsv.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auditcsv",
		Short: "Convert dependency audit tables into a CSV report",
		Long: `auditcsv converts the box-drawn table output of a dependency audit
(npm audit style) into a flat, deduplicated, semicolon separated report.

Only advisories whose dependency is a direct dependency in package.json are
kept. An advisory is reported once per package and reason; the first
occurrence wins.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
