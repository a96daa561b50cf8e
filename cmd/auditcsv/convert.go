package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/auditcsv/internal/config"
	"github.com/nao1215/auditcsv/internal/database"
	"github.com/nao1215/auditcsv/internal/log"
	"github.com/nao1215/auditcsv/internal/manifest"
	"github.com/nao1215/auditcsv/internal/model"
	"github.com/nao1215/auditcsv/internal/pipeline"
	"github.com/nao1215/auditcsv/internal/report"
	"github.com/spf13/cobra"
)

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert audit table output into a report",
		Long: `Convert reads the table output of a dependency audit and writes one line
per advisory affecting a direct dependency of the project:

  package;severity;reason;patchedIn

Direct dependencies are the keys of "dependencies" in package.json in the
working directory. An advisory for the same package and reason is written
only once; the first occurrence wins.

Examples:
  # Convert from standard input, writing audit-log.csv in the current directory
  npm audit | auditcsv convert

  # Convert a captured audit for another project, printing to stdout
  auditcsv convert --dir ./app --input audit.txt --stdout

  # Markdown report, with run counters on standard error
  npm audit | auditcsv convert --format markdown -o report.md --summary

  # Keep a copy of the run in the history database
  npm audit | auditcsv convert --save

Configuration file (.auditcsv.yaml) example:
  output: reports/audit.csv
  header: true
  format: csv
  manifest: package.json`,
		Args: cobra.NoArgs,
		RunE: runConvertCmd,
	}

	// Input and project flags
	cmd.Flags().StringP("dir", "d", ".",
		"Project working directory holding package.json")
	cmd.Flags().StringP("input", "i", "",
		"Read audit output from file instead of standard input")
	cmd.Flags().StringP("manifest", "m", config.DefaultManifestFile,
		"Manifest path, relative to the working directory")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Report path, relative to the working directory (default: "+config.DefaultOutputFile+")")
	cmd.Flags().Bool("stdout", false,
		"Write the report to standard output (mutually exclusive with --output)")
	cmd.Flags().StringP("format", "f", config.FormatCSV,
		"Report format: csv, json or markdown")
	cmd.Flags().Bool("header", false,
		"Write the column name line in CSV reports")
	cmd.Flags().BoolP("summary", "s", false,
		"Print run counters to standard error")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in the working directory or XDG config dir)")

	// History and logging
	cmd.Flags().Bool("save", false,
		"Save the run to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")
	cmd.Flags().Bool("json-log", false,
		"Write logs as JSON lines")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runConvert(ctx, cfg, streams{
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}, logger)
}

// streams are the standard streams of one command invocation.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra flags.
// File values override defaults; flags given on the command line override both.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	cfg.WorkDir, err = flags.GetString("dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// Otherwise a missing file just means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.WorkDir)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("header") {
		if cfg.Header, err = flags.GetBool("header"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("manifest") {
		if cfg.ManifestFile, err = flags.GetString("manifest"); err != nil {
			return nil, err
		}
	}

	cfg.Stdout, err = flags.GetBool("stdout")
	if err != nil {
		return nil, err
	}
	// --stdout wins over an output path that came from the config file
	if cfg.Stdout && !flags.Changed("output") {
		cfg.OutputFile = ""
	}

	cfg.InputFile, err = flags.GetString("input")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = flags.GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = flags.GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = flags.GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.JSONLog, err = flags.GetBool("json-log")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setupLogger creates a structured logger based on the configuration.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewLogger(w, cfg.Verbose)
}

// runConvert executes one conversion.
// The manifest is loaded before any input is read; a missing or invalid
// manifest aborts the run without creating the report file.
func runConvert(ctx context.Context, cfg *config.Config, s streams, logger *slog.Logger) error {
	deps, err := manifest.LoadFile(cfg.ManifestPath())
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Debug("manifest loaded", "path", cfg.ManifestPath(), "dependencies", deps.Len())

	input, closeInput, err := openInput(cfg, s.in)
	if err != nil {
		return err
	}
	defer closeInput()

	output, finishOutput, err := openOutput(cfg, s.out)
	if err != nil {
		return err
	}

	var recorder *report.Recorder
	w := newReportWriter(cfg, output)
	if cfg.SaveToDB {
		recorder = report.NewRecorder()
		w = report.NewMultiWriter(w, recorder)
	}

	p := pipeline.New(deps, pipeline.WithLogger(logger))
	summary, runErr := p.Run(ctx, input, w)
	if err := errors.Join(runErr, finishOutput(runErr == nil)); err != nil {
		return err
	}

	if cfg.Summary {
		if err := report.WriteSummary(s.errOut, summary); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if recorder != nil {
		if err := saveRun(ctx, cfg, recorder, logger); err != nil {
			return err
		}
	}

	return nil
}

// openInput returns the audit output source.
func openInput(cfg *config.Config, stdin io.Reader) (io.Reader, func(), error) {
	if cfg.InputFile == "" {
		return stdin, func() {}, nil
	}

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// openOutput returns the report destination and a function finishing it.
// A file report is written to a temporary file next to the target; finish
// renames it into place when keep is true and removes it otherwise, so a
// failed run leaves any previous report untouched.
func openOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func(keep bool) error, error) {
	if cfg.Stdout {
		return stdout, func(bool) error { return nil }, nil
	}

	path := cfg.OutputPath()
	dir := filepath.Dir(path)

	// Create directories if they don't exist
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// CreateTemp opens the file 0600; audit results stay owner-only
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	finish := func(keep bool) error {
		closeErr := f.Close()
		if !keep || closeErr != nil {
			_ = os.Remove(f.Name())
			if closeErr != nil {
				return fmt.Errorf("failed to write output file: %w", closeErr)
			}
			return nil
		}
		if err := os.Rename(f.Name(), path); err != nil {
			_ = os.Remove(f.Name())
			return fmt.Errorf("failed to replace output file: %w", err)
		}
		return nil
	}
	return f, finish, nil
}

// newReportWriter returns the report.Writer for the configured format.
// The format has already been checked by Config.Validate.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch cfg.Format {
	case config.FormatJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewCSVWriter(output, report.WithHeader(cfg.Header))
	}
}

// saveRun stores the finished run in the history database.
func saveRun(ctx context.Context, cfg *config.Config, recorder *report.Recorder, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		workDir = cfg.WorkDir
	}

	summary := recorder.Summary()
	if summary == nil {
		summary = model.NewSummary()
	}

	id, err := db.SaveRun(ctx, &database.Run{
		WorkDir:         workDir,
		Format:          cfg.Format,
		Summary:         summary,
		Vulnerabilities: recorder.Records(),
	})
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved", "id", id, "db", db.Path())
	return nil
}
