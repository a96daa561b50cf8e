package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/auditcsv/internal/config"
	"github.com/nao1215/auditcsv/internal/database"
	"github.com/nao1215/auditcsv/internal/model"
	"github.com/nao1215/auditcsv/internal/report"
	"github.com/spf13/cobra"
)

// noFindingsMessage is printed for runs that reported nothing.
const noFindingsMessage = "No findings"

// NewHistoryCmd creates the history command.
// This command lists runs saved with 'auditcsv convert --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved conversion runs",
		Long: `History lists runs saved with 'auditcsv convert --save', newest first.

Saved runs are an archive only; they never change what a later conversion
reports.

Examples:
  # List the 10 most recent runs
  auditcsv history

  # List every run
  auditcsv history --limit 0

  # Print the records of run 5 as CSV
  auditcsv history --show 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Number of runs to list (0 lists all)")
	cmd.Flags().Int64("show", 0,
		"Print the records of the run with this ID as CSV")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs saved yet.")
		fmt.Fprintln(out, "\nUse 'auditcsv convert --save' to keep a run.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if showID != 0 {
		vulns, err := db.GetRunVulnerabilities(cmd.Context(), showID)
		if err != nil {
			return err
		}
		return writeRunRecords(out, vulns)
	}

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return listRuns(out, runs)
}

// listRuns prints one line per run.
func listRuns(out io.Writer, runs []database.RunMetadata) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs saved yet.")
		return err
	}

	fmt.Fprintf(out, "Saved runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Format", "Reported", "Severities")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %-8d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Format,
			run.Summary.Emitted,
			formatSeveritySummary(run.Summary),
		)
		fmt.Fprintf(out, "          %s\n", run.WorkDir)
	}

	_, err := fmt.Fprintln(out, "\nUse 'auditcsv history --show <id>' to print the records of a run.")
	return err
}

// formatSeveritySummary renders counts like "C:1 H:2 M:1".
func formatSeveritySummary(summary *model.Summary) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	for _, level := range model.Severities() {
		if n := summary.Count(level); n > 0 {
			initial := strings.ToUpper(level.String()[:1])
			parts = append(parts, fmt.Sprintf("%s:%d", initial, n))
		}
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// writeRunRecords prints saved records as a CSV report with header.
func writeRunRecords(out io.Writer, vulns []model.Vulnerability) error {
	w := report.NewCSVWriter(out, report.WithHeader(true))
	for _, v := range vulns {
		if err := w.WriteRecord(v); err != nil {
			return err
		}
	}
	return w.Flush(nil)
}
