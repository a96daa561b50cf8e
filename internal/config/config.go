package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "auditcsv"

	// DefaultOutputFile is the report file name, relative to the working directory.
	DefaultOutputFile = "audit-log.csv"

	// DefaultManifestFile is the dependency manifest, relative to the working directory.
	DefaultManifestFile = "package.json"

	// DefaultHistoryLimit is the number of runs listed by the history command.
	DefaultHistoryLimit = 10
)

// Report formats.
const (
	// FormatCSV is the semicolon separated report. It is the default.
	FormatCSV = "csv"

	// FormatJSON is a JSON document with records and run summary.
	FormatJSON = "json"

	// FormatMarkdown is a Markdown document with tables and a severity chart.
	FormatMarkdown = "markdown"
)

// Formats returns the supported report formats.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatMarkdown}
}

// Config holds all configuration options for auditcsv.
// It is populated from the config file and CLI flags and passed through
// the application explicitly rather than read from global state.
type Config struct {
	// WorkDir is the project directory. The manifest is read from it and,
	// unless an absolute path is given, the report is written into it.
	WorkDir string

	// InputFile is the captured audit output. Empty means standard input.
	InputFile string

	// OutputFile is the report path. Empty means DefaultOutputFile.
	// Relative paths are resolved against WorkDir.
	OutputFile string

	// Stdout writes the report to standard output instead of a file.
	// Mutually exclusive with OutputFile.
	Stdout bool

	// Header enables the column name line of the CSV report.
	Header bool

	// Format is one of FormatCSV, FormatJSON or FormatMarkdown.
	Format string

	// ManifestFile is the manifest path, relative to WorkDir unless absolute.
	ManifestFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONLog switches log output from text to JSON lines.
	JSONLog bool

	// Summary prints run counters to standard error after the report.
	Summary bool

	// SaveToDB stores the run and its records in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/auditcsv on Linux).
	DBDir string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		WorkDir:      ".",
		Format:       FormatCSV,
		ManifestFile: DefaultManifestFile,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for auditcsv.
// On Linux: ~/.local/share/auditcsv
// On macOS: ~/Library/Application Support/auditcsv
// On Windows: %LOCALAPPDATA%\auditcsv
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for auditcsv.
// On Linux: ~/.config/auditcsv
// On macOS: ~/Library/Application Support/auditcsv
// On Windows: %APPDATA%\auditcsv
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputPath returns the resolved report file path.
func (c *Config) OutputPath() string {
	name := c.OutputFile
	if name == "" {
		name = DefaultOutputFile
	}
	return c.resolve(name)
}

// ManifestPath returns the resolved manifest path.
func (c *Config) ManifestPath() string {
	name := c.ManifestFile
	if name == "" {
		name = DefaultManifestFile
	}
	return c.resolve(name)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.WorkDir, name)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in
// errors.go. It is called once after flag parsing, before any input is read.
func (c *Config) Validate() error {
	if c.WorkDir == "" {
		return ErrNoWorkDir
	}

	if !isKnownFormat(c.Format) {
		return ErrUnknownFormat
	}

	if c.Stdout && c.OutputFile != "" {
		return ErrConflictingOutputs
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}

func isKnownFormat(format string) bool {
	for _, f := range Formats() {
		if f == format {
			return true
		}
	}
	return false
}
