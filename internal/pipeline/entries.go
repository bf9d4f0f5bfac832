package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/model"
)

// Section titles used by non-text writers.
const (
	TitleFileSystem  = "File System Information"
	TitleDRM         = "DRM ID Information"
	TitleKernel      = "Kernel Files Information"
	TitleSystemFiles = "System Files Information"
	TitleSystem      = "System Information"
	TitleCommon      = "Common Device Information"
	TitleNetwork     = "MAC Address Information"
)

// ForEntry builds the pipeline for an entry point. Steps continue past
// failures; opts may override that.
func ForEntry(entry model.Entry, env collector.Env, opts ...Option) (*Pipeline, error) {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
		env.Logger = logger
	}

	p := New(append([]Option{WithLogger(logger), WithContinueOnError(true)}, opts...)...)
	stepLogger := WithStepLogger(logger)

	system := collector.NewSystem(env)
	switch entry {
	case model.EntryFileSystem:
		p.AddStep(NewFuncStep("filesystem_info", system.Name(), TitleFileSystem, system.FileSystemInfo, stepLogger))
	case model.EntryDRM:
		p.AddStep(NewFuncStep("drm_id", system.Name(), TitleDRM, system.DrmID, stepLogger))
	case model.EntryKernel:
		p.AddStep(NewFuncStep("kernel_files", system.Name(), TitleKernel, system.KernelFilesInfo, stepLogger))
	case model.EntrySystemFiles:
		p.AddStep(NewFuncStep("system_files", system.Name(), TitleSystemFiles, system.SystemFilesInfo, stepLogger))
	case model.EntryCommon:
		p.AddStep(NewCollectorStep(collector.NewCommon(env), TitleCommon, stepLogger))
	case model.EntryNetwork:
		p.AddStep(NewCollectorStep(collector.NewNetwork(env), TitleNetwork, stepLogger))
	case model.EntryAll:
		p.AddSteps(
			NewHeaderStep(ComprehensiveHeader),
			NewCollectorStep(system, TitleSystem, stepLogger),
			NewCollectorStep(collector.NewCommon(env), TitleCommon, stepLogger),
		)
	default:
		return nil, fmt.Errorf("unknown entry %q", entry)
	}
	return p, nil
}

// Run collects the report for entry. It never fails: an unknown entry or
// a failing step is rendered into the report text.
func Run(ctx context.Context, entry model.Entry, env collector.Env, opts ...Option) *model.Report {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := model.NewReport(entry)
	if host, err := os.Hostname(); err == nil {
		report.Hostname = host
	}

	logger.Info("starting report collection", "entry", entry)

	p, err := ForEntry(entry, env, opts...)
	if err != nil {
		logger.Error("cannot build pipeline", "entry", entry, "error", err)
		report.AddError(err.Error())
		report.AddSection(model.Section{
			Title: "Error",
			Body:  "Unable to retrieve: " + err.Error() + "\n",
		})
		return report
	}

	if err := p.Execute(ctx, report); err != nil {
		logger.Warn("report collection stopped early", "entry", entry, "error", err)
	}

	logger.Info("report collection completed",
		"entry", entry,
		"sections", len(report.Sections),
	)
	return report
}

// Text returns the plain-text report for entry.
func Text(ctx context.Context, entry model.Entry, env collector.Env) string {
	return Run(ctx, entry, env).Text()
}
