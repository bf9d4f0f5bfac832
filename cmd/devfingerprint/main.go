// Package main provides the entry point for the devfingerprint CLI.
//
// devfingerprint collects device and system identifiers from an Android
// device (or a sysroot pulled from one) and prints them as line-oriented
// text reports.
//
// Usage:
//
//	devfingerprint collect [entry...]
//	devfingerprint compare [entry]
//
// See --help for all available options.
package main

// main is the entry point for devfingerprint.
func main() {
	Execute()
}
