// Package log provides secure logging functionality with automatic masking
// of device identifiers, built on top of the standard slog package.
//
// Reports intentionally contain raw identifiers. Logs are different: they
// end up in bug reports, CI output and shared terminals, so the SecureHandler
// masks identifier values before they reach the underlying handler:
//   - serial numbers, IMEI, IMSI and ICCID values
//   - DRM device-unique ids and Android ids
//   - MAC addresses, boot ids and other UUIDs
//   - eMMC CIDs and similar long hexadecimal strings
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("interface found",
//	    "interface", "wlan0",         // kept
//	    "mac", "aa:bb:cc:dd:ee:ff",   // masked
//	)
//
//	slog.SetDefault(logger)
package log
