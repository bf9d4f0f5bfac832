package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() and
// can be matched with errors.Is().
var (
	// ErrNoEntry is returned when no entry point is requested.
	ErrNoEntry = errors.New("no entry specified")

	// ErrInvalidEntry is returned when the requested entry point is unknown.
	ErrInvalidEntry = errors.New("invalid entry: must be one of filesystem, drm, kernel, system-files, common, network, all")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history enabled but no database directory configured")

	// ErrInvalidLimit is returned when a truncation limit in the config file is negative.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrRelativePath is returned when a device path in the config file is not absolute.
	ErrRelativePath = errors.New("invalid path: device paths must be absolute")
)
