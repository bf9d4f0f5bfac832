package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the per-directory configuration file name.
const DefaultConfigFile = ".devfingerprint"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads a device layout file. Unknown keys are rejected so a
// misspelled path list does not silently fall back to the defaults. An
// empty file is a valid, empty configuration.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cf.Properties == nil {
		cf.Properties = map[string]string{}
	}
	if cf.Runtime == nil {
		cf.Runtime = map[string]string{}
	}
	return &cf, nil
}

// FindConfigFile returns configPath when it is set and exists. Otherwise it
// returns the first existing file among SearchPaths, or "".
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if isFile(configPath) {
			return configPath
		}
		return ""
	}
	return firstExisting(SearchPaths())
}

// SearchPaths lists the implicit configuration locations in lookup order:
// the working directory, the home directory, then the XDG config dir.
func SearchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
