// Package collector implements the report collectors.
//
// A Collector produces one named, multi-section block of report text. Each
// collector is a fixed sequence of sub-steps; a sub-step that returns an
// error or panics gets an inline "Error collecting <label>: <message>" line
// and collection continues with the next sub-step. Collect never fails.
//
// Collectors:
//   - System: filesystem statistics, DRM id, kernel files, system files
//   - Common: device, network, hardware and application information
//   - Network: MAC addresses obtained three independent ways
//
// All environment access goes through Env, so collectors run unchanged
// against a live device, an extracted system image (via FS.Root), or test
// doubles.
package collector
