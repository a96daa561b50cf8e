package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the
// working directory.
const DefaultConfigFile = ".auditcsv.yaml"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the configuration file.
//
//	output: reports/audit.csv
//	header: true
//	format: csv
//	manifest: package.json
type File struct {
	// Output overrides the report path.
	Output string `yaml:"output,omitempty"`

	// Header enables the CSV header line. A pointer so that an explicit
	// false can be told apart from an absent key.
	Header *bool `yaml:"header,omitempty"`

	// Format overrides the report format.
	Format string `yaml:"format,omitempty"`

	// Manifest overrides the manifest path.
	Manifest string `yaml:"manifest,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .auditcsv.yaml in workDir
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath, workDir string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := []string{
		filepath.Join(workDir, DefaultConfigFile),
		filepath.Join(XDGConfigDir(), xdgConfigFile),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply copies the values set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf.Output != "" {
		c.OutputFile = cf.Output
	}
	if cf.Header != nil {
		c.Header = *cf.Header
	}
	if cf.Format != "" {
		c.Format = cf.Format
	}
	if cf.Manifest != "" {
		c.ManifestFile = cf.Manifest
	}
}
