package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/auditcsv/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/auditcsv.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an auditcsv configuration file",
		Long: `Init writes a commented configuration file holding the defaults of
'auditcsv convert':

  output    report path, relative to the working directory (audit-log.csv)
  header    write the package;severity;reason;patchedIn line first (false)
  format    csv, json or markdown (csv)
  manifest  file whose "dependencies" are the direct dependencies (package.json)

convert looks for ` + config.DefaultConfigFile + ` in its --dir, so the default
location makes the file apply to the project in the current directory. Place it
in the XDG config directory as config.yaml to apply it to every project.

Examples:
  # Create .auditcsv.yaml for the project in the current directory
  auditcsv init

  # Create the per-user configuration
  auditcsv init -o ~/.config/auditcsv/config.yaml

  # Replace an existing file
  auditcsv init -f

  # Print the template instead of writing it
  auditcsv init --stdout`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Configuration file to create")
	cmd.Flags().BoolP("force", "f", false,
		"Replace the file if it already exists")
	cmd.Flags().Bool("stdout", false,
		"Print the template to standard output")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout {
		_, err := cmd.OutOrStdout().Write(configTemplate)
		return err
	}

	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeTemplate(path, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", path)
	return nil
}

// writeTemplate writes the configuration template to path, owner-only.
// Without force an existing file is an error.
func writeTemplate(path string, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	_, werr := f.Write(configTemplate)
	if err := errors.Join(werr, f.Close()); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
