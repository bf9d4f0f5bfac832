package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/devfingerprint/internal/model"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "devfingerprint"

	// DefaultEntry is the entry point collected when none is given.
	DefaultEntry = model.EntryAll
)

// Config holds all configuration options for devfingerprint.
// This struct is populated from CLI flags and the optional config file and
// passed through the application rather than kept in global state.
type Config struct {
	// Entries are the entry points to collect, in order.
	Entries []model.Entry

	// Sysroot is prefixed to every device path. Empty means the live system.
	// A sysroot is typically a directory pulled from a device with adb.
	Sysroot string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .devfingerprint in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds the settings loaded from the config file.
	// It is nil when no config file was found.
	File *File

	// JSONReport enables JSON report output instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of plain text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for the history database.
	// Defaults to XDG data directory (~/.local/share/devfingerprint on Linux).
	DBDir string

	// SaveToDB indicates whether to save the report to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Entries:  []model.Entry{DefaultEntry},
		DBDir:    XDGDataDir(),
		SaveToDB: true,
	}
}

// EffectiveSysroot returns the sysroot from the CLI, falling back to the
// config file.
func (c *Config) EffectiveSysroot() string {
	if c.Sysroot != "" {
		return c.Sysroot
	}
	if c.File != nil {
		return c.File.Sysroot
	}
	return ""
}

// XDGDataDir returns the XDG data directory for devfingerprint.
// On Linux: ~/.local/share/devfingerprint
// On macOS: ~/Library/Application Support/devfingerprint
// On Windows: %LOCALAPPDATA%\devfingerprint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for devfingerprint.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Entries) == 0 {
		return ErrNoEntry
	}
	for _, e := range c.Entries {
		if !e.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidEntry, e)
		}
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	if c.File != nil {
		return c.File.Validate()
	}

	return nil
}
