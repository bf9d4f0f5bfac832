// Package database provides SQLite-based snapshot history for devfingerprint.
//
// This package implements the ReportDB, which stores:
//   - Complete reports as JSON, one row per collection run
//   - A blake2b-256 digest of every section body
//
// Stored reports can be compared section by section to see which parts of a
// fingerprint changed between two runs on the same device.
//
// SQLite is provided by modernc.org/sqlite, so the binary stays CGO-free and
// cross-compiles to Android targets.
package database
