package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/model"
)

// BatchProcessor collects several entry points one after another against
// the same environment. Entries run sequentially; the order of the
// returned reports matches the order requested.
type BatchProcessor struct {
	// env is shared by every entry.
	env collector.Env

	// pipelineOpts are passed to every ForEntry call.
	pipelineOpts []Option

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithPipelineOptions sets options applied to each entry's pipeline.
func WithPipelineOptions(opts ...Option) BatchOption {
	return func(b *BatchProcessor) {
		b.pipelineOpts = append(b.pipelineOpts, opts...)
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(env collector.Env, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{env: env}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch collects every entry in order. It stops early only when
// ctx is cancelled, returning the reports gathered so far.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, entries []model.Entry) ([]*model.Report, error) {
	reports := make([]*model.Report, 0, len(entries))
	err := bp.ProcessBatchWithCallback(ctx, entries, func(r *model.Report, _ int) {
		reports = append(reports, r)
	})
	return reports, err
}

// ProcessBatchWithCallback collects every entry and calls callback with
// each report as soon as it is complete.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	entries []model.Entry,
	callback func(report *model.Report, index int),
) error {
	bp.logger.Info("starting batch collection", "total_entries", len(entries))
	startTime := time.Now()

	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		bp.logger.Debug("collecting entry",
			"entry", entry,
			"index", i+1,
			"total", len(entries),
		)
		callback(Run(ctx, entry, bp.env, bp.pipelineOpts...), i)
	}

	bp.logger.Info("batch collection complete",
		"total_entries", len(entries),
		"elapsed", time.Since(startTime),
	)
	return nil
}
