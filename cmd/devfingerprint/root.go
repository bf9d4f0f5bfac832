// Package main provides the entry point for the devfingerprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for devfingerprint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devfingerprint",
		Short: "Collect device fingerprint reports from Android systems",
		Long: `devfingerprint collects device and system identifiers from Android build
properties, /proc and /sys pseudo-files, build.prop files, the Widevine DRM
subsystem and network interfaces, and prints them as plain-text reports.

Every failure is reported inline; a report is always produced.
Reports are kept in a local history so that runs can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
