// Package config provides configuration structures and utilities for devfingerprint.
// It defines the CLI-level options, the YAML file schema that describes device
// paths and property overrides, and the XDG directories used for history.
package config
