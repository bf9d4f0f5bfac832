// Package probe provides the raw accessors used by every collector.
//
// These are the only functions that touch the outside world:
//   - FS.Exists and FS.Read/FS.ReadFile for /proc, /sys and build.prop files
//   - ExecuteCommand for the few values only available from a shell utility
//   - PropertyStore lookups for build properties and runtime properties
//   - DiskUsager, Statfs and Uname for filesystem and kernel identification
//
// # Failure Model
//
// Low-level operations return typed errors (see Error). The string-returning
// helpers (ReadFile, ExecuteCommand, BuildProperty, RuntimeProperty) render a
// failure as a placeholder line that embeds the path, command or key, so a
// collector can append the result to its report without branching.
//
// # Sysroot
//
// FS resolves every absolute path under an optional Root directory. Report
// text always shows the logical path, so a report taken from an extracted
// device image reads the same as one taken on the device.
package probe
