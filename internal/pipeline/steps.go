package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/model"
)

// ComprehensiveHeader starts the report of the "all" entry point.
const ComprehensiveHeader = "=== Comprehensive Device Fingerprint Collection ===\n\n"

// sectionFunc produces the body of one section.
type sectionFunc func(ctx context.Context) string

// appendSection runs fn and appends its output as a section. A panic is
// rendered as "Unable to retrieve: <message>" in place of the body.
func appendSection(ctx context.Context, logger *slog.Logger, report *model.Report, name, title string, fn sectionFunc) {
	body := func() (body string) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("collection failed",
					"collector", name,
					"section", title,
					"error", r,
				)
				report.AddError(fmt.Sprintf("%s: %v", title, r))
				body = fmt.Sprintf("Unable to retrieve: %v\n", r)
			}
		}()
		return fn(ctx)
	}()

	report.AddSection(model.Section{
		Collector: name,
		Title:     title,
		Body:      body,
	})
}

// CollectorStep runs a whole collector as one section.
type CollectorStep struct {
	collector collector.Collector
	title     string
	logger    *slog.Logger
}

// StepOption configures CollectorStep and FuncStep.
type StepOption func(*stepOptions)

type stepOptions struct {
	logger *slog.Logger
}

// WithStepLogger sets a custom logger for a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(o *stepOptions) {
		o.logger = logger
	}
}

func applyStepOptions(opts []StepOption) stepOptions {
	o := stepOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewCollectorStep creates a step that appends c's full report.
func NewCollectorStep(c collector.Collector, title string, opts ...StepOption) *CollectorStep {
	o := applyStepOptions(opts)
	return &CollectorStep{collector: c, title: title, logger: o.logger}
}

// Name returns the step name.
func (s *CollectorStep) Name() string {
	return "collect_" + s.collector.Name()
}

// Do executes the collector.
func (s *CollectorStep) Do(ctx context.Context, report *model.Report) error {
	s.logger.Info("starting collection", "collector", s.collector.Name())
	appendSection(ctx, s.logger, report, s.collector.Name(), s.title, s.collector.Collect)
	s.logger.Info("collection completed", "collector", s.collector.Name())
	return nil
}

// FuncStep runs a single collector method as one section.
type FuncStep struct {
	name      string
	collector string
	title     string
	fn        sectionFunc
	logger    *slog.Logger
}

// NewFuncStep creates a step named name that appends fn's output as a
// section attributed to collectorName.
func NewFuncStep(name, collectorName, title string, fn func(ctx context.Context) string, opts ...StepOption) *FuncStep {
	o := applyStepOptions(opts)
	return &FuncStep{name: name, collector: collectorName, title: title, fn: fn, logger: o.logger}
}

// Name returns the step name.
func (s *FuncStep) Name() string {
	return s.name
}

// Do executes the collector method.
func (s *FuncStep) Do(ctx context.Context, report *model.Report) error {
	s.logger.Info("starting collection", "step", s.name)
	appendSection(ctx, s.logger, report, s.collector, s.title, s.fn)
	s.logger.Info("collection completed", "step", s.name)
	return nil
}

// HeaderStep sets the report header.
type HeaderStep struct {
	header string
}

// NewHeaderStep creates a step that writes header before all sections.
func NewHeaderStep(header string) *HeaderStep {
	return &HeaderStep{header: header}
}

// Name returns the step name.
func (s *HeaderStep) Name() string {
	return "header"
}

// Do sets the header.
func (s *HeaderStep) Do(_ context.Context, report *model.Report) error {
	report.Header = s.header
	return nil
}
