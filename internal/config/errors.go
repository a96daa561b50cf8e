package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrNoWorkDir is returned when the working directory is empty.
	ErrNoWorkDir = errors.New("no working directory specified")

	// ErrUnknownFormat is returned when the report format is not one of
	// csv, json or markdown.
	ErrUnknownFormat = errors.New("unknown report format: must be csv, json or markdown")

	// ErrConflictingOutputs is returned when both --stdout and --output
	// are specified.
	ErrConflictingOutputs = errors.New("conflicting outputs: --stdout and --output cannot be used together")

	// ErrNoDBDir is returned when saving to the history database is
	// requested without a database directory.
	ErrNoDBDir = errors.New("no database directory specified")
)
