package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/config"
	"github.com/nao1215/devfingerprint/internal/database"
	"github.com/nao1215/devfingerprint/internal/log"
	"github.com/nao1215/devfingerprint/internal/model"
	"github.com/nao1215/devfingerprint/internal/pipeline"
	"github.com/nao1215/devfingerprint/internal/report"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [entry...]",
		Short: "Collect a device fingerprint report",
		Long: `Collect runs one or more report entry points and prints the result.

Entries:
  filesystem    filesystem statistics gathered three ways
  drm           Widevine device-unique id, Base64 encoded
  kernel        build.prop properties and kernel/system text files
  system-files  single-line identifier files and uname
  common        device, network, hardware and runtime information
  network       MAC address obtained through several methods
  all           comprehensive report (default)

Examples:
  # Comprehensive report of the running device
  devfingerprint collect

  # Kernel files of a filesystem pulled with adb
  devfingerprint collect kernel --sysroot ./device

  # Several entries as Markdown
  devfingerprint collect drm network -m -o report.md

Configuration file (.devfingerprint) example:
  sysroot: ./device
  buildprop:
    files:
      - /system/build.prop
  properties:
    ro.serialno: R58N12ABCDE`,
		Args: cobra.ArbitraryArgs,
		RunE: runCollectCmd,
	}

	cmd.Flags().StringP("sysroot", "r", "",
		"Directory prefixed to every device path (default: live system)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .devfingerprint in current or home directory, then $XDG_CONFIG_HOME/devfingerprint/config.yaml)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not save the report to the history database")

	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCollect(ctx, cfg, buildEnv(cfg, logger), cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	if len(args) > 0 {
		cfg.Entries = make([]model.Entry, 0, len(args))
		for _, arg := range args {
			entry, err := model.ParseEntry(arg)
			if err != nil {
				return nil, err
			}
			cfg.Entries = append(cfg.Entries, entry)
		}
	}

	cfg.Sysroot, err = cmd.Flags().GetString("sysroot")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist. Otherwise a missing file
	// just means the defaults are used.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	return cfg, nil
}

// runCollect collects every configured entry, writes each report and
// stores it in the history database.
func runCollect(ctx context.Context, cfg *config.Config, env collector.Env, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("starting collection",
		"entries", cfg.Entries,
		"sysroot", cfg.EffectiveSysroot(),
		"saveToDB", cfg.SaveToDB,
	)

	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(cfg, output)

	bp := pipeline.NewBatchProcessor(env, pipeline.WithBatchLogger(logger))
	var writeErr error
	err = bp.ProcessBatchWithCallback(ctx, cfg.Entries, func(r *model.Report, _ int) {
		if _, err := writer.Write(r); err != nil && writeErr == nil {
			writeErr = fmt.Errorf("failed to write report: %w", err)
		}
		if err := saveReport(ctx, db, r, logger); err != nil {
			logger.Error("failed to save report", "entry", r.Entry, "error", err)
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}

// openHistory opens the history database when enabled. History never gates
// the report: an unusable database is logged and collection goes on
// without it.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.ReportDB {
	if !cfg.SaveToDB {
		return nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open database, history disabled", "dir", cfg.DBDir, "error", err)
		return nil
	}
	logger.Info("database opened", "dir", cfg.DBDir)
	return db
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput opens the report file, or returns stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports hold device identifiers, so only the owner may read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// saveReport saves the report to the database if enabled.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.ReportDB, r *model.Report, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveReport(ctx, r)
	if err != nil {
		return err
	}

	logger.Info("report saved to database", "entry", r.Entry, "id", id)
	return nil
}
