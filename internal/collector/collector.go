package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/devfingerprint/internal/model"
)

// Collector produces one named report block.
type Collector interface {
	// Name returns a stable identifier used in logs and report metadata.
	Name() string

	// Collect returns the collector's full report text. It never fails;
	// failures are rendered inline.
	Collect(ctx context.Context) string
}

// stepFunc writes a sub-step's output to sb. A returned error is rendered
// inline after whatever was written.
type stepFunc func(ctx context.Context, sb *strings.Builder) error

// runStep executes fn, recovering panics, and returns its captured outcome.
func runStep(ctx context.Context, logger *slog.Logger, collector, label string, fn stepFunc) (res model.StepResult) {
	var sb strings.Builder
	res.Label = label

	defer func() {
		if r := recover(); r != nil {
			res.Output = sb.String()
			res.Err = fmt.Errorf("%v", r)
			logger.Error("sub-step panicked",
				"collector", collector,
				"step", label,
				"error", res.Err,
			)
		}
	}()

	err := fn(ctx, &sb)
	res.Output = sb.String()
	if err != nil {
		res.Err = err
		logger.Error("sub-step failed",
			"collector", collector,
			"step", label,
			"error", err,
		)
	}
	return res
}

// section runs fn as a titled sub-step: the "=== title ===" header, the
// step output, an inline error line when it failed, then a blank line.
func section(ctx context.Context, logger *slog.Logger, collector, title, label string, fn stepFunc) string {
	res := runStep(ctx, logger, collector, label, func(ctx context.Context, sb *strings.Builder) error {
		sb.WriteString("=== " + title + " ===\n\n")
		return fn(ctx, sb)
	})
	return res.Render() + "\n"
}

// guard runs fn and renders a panic as "Unable to retrieve: <message>".
// It is the boundary for the stand-alone collector methods.
func guard(logger *slog.Logger, collector, method, prefix string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("collector method panicked",
				"collector", collector,
				"method", method,
				"error", r,
			)
			out = prefix + fmt.Sprintf("Unable to retrieve: %v\n", r)
		}
	}()
	return fn()
}
