package config

import (
	"fmt"
	"path"
)

// File represents the structure of the .devfingerprint configuration file.
// Empty fields keep the built-in Android defaults.
type File struct {
	// Sysroot is prefixed to every device path unless --sysroot is given.
	Sysroot string `yaml:"sysroot,omitempty"`

	// Storage overrides the storage mount points.
	Storage StorageConfig `yaml:"storage,omitempty"`

	// BuildProp overrides the build.prop files and the key allow-list.
	BuildProp BuildPropConfig `yaml:"buildprop,omitempty"`

	// Files overrides the dumped file groups.
	Files FilesConfig `yaml:"files,omitempty"`

	// Network overrides the examined interfaces.
	Network NetworkConfig `yaml:"network,omitempty"`

	// DRM configures where the device-unique id comes from.
	DRM DRMConfig `yaml:"drm,omitempty"`

	// Properties are static build property values. They take precedence
	// over getprop and the build.prop files.
	Properties map[string]string `yaml:"properties,omitempty"`

	// Runtime are runtime property values such as java.vm.version that have
	// no equivalent outside an Android runtime.
	Runtime map[string]string `yaml:"runtime,omitempty"`
}

// StorageConfig holds storage mount points.
type StorageConfig struct {
	// External is the shared-storage mount, e.g. /storage/emulated/0.
	External string `yaml:"external,omitempty"`

	// Internal is the data partition, e.g. /data.
	Internal string `yaml:"internal,omitempty"`
}

// BuildPropConfig holds build.prop parsing settings.
type BuildPropConfig struct {
	// Files are the build.prop files to parse, in order.
	Files []string `yaml:"files,omitempty"`

	// Keys is the allow-list of property keys to report.
	Keys []string `yaml:"keys,omitempty"`
}

// FilesConfig holds the dumped file groups and their truncation limits.
type FilesConfig struct {
	Other           []string `yaml:"other,omitempty"`
	OtherLimit      int      `yaml:"otherLimit,omitempty"`
	System          []string `yaml:"system,omitempty"`
	Additional      []string `yaml:"additional,omitempty"`
	AdditionalLimit int      `yaml:"additionalLimit,omitempty"`
}

// NetworkConfig holds the examined network interfaces.
type NetworkConfig struct {
	// Interfaces are shown by the common report.
	Interfaces []string `yaml:"interfaces,omitempty"`

	// WiFi is the interface the network report compares.
	WiFi string `yaml:"wifi,omitempty"`
}

// DRMConfig configures the DRM id source.
type DRMConfig struct {
	// DeviceIDFile holds the raw device-unique id bytes, exported from a
	// device beforehand. When empty, the DRM report shows the failure text.
	DeviceIDFile string `yaml:"deviceIdFile,omitempty"`
}

// Validate checks the file for negative limits and relative device paths.
func (f *File) Validate() error {
	if f.Files.OtherLimit < 0 || f.Files.AdditionalLimit < 0 {
		return ErrInvalidLimit
	}

	groups := [][]string{
		{f.Storage.External, f.Storage.Internal},
		f.BuildProp.Files,
		f.Files.Other,
		f.Files.System,
		f.Files.Additional,
	}
	for _, group := range groups {
		for _, p := range group {
			if p != "" && !path.IsAbs(p) {
				return fmt.Errorf("%w: %s", ErrRelativePath, p)
			}
		}
	}
	return nil
}
