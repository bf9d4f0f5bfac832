package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/devfingerprint/internal/model"
)

// SimpleWriter outputs the plain-text report exactly as the entry points
// return it.
type SimpleWriter struct {
	baseWriter

	// verbose appends a collection summary after the report.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose appends a summary of performed steps and contained errors.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report text.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	sb.WriteString(report.Text())

	if w.verbose {
		w.writeSummary(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeSummary writes the trailing collection summary.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	sb.WriteString("--------------------------------------------------\n")
	fmt.Fprintf(sb, "Entry: %s\n", report.Entry)
	if report.Hostname != "" {
		fmt.Fprintf(sb, "Host: %s\n", report.Hostname)
	}
	fmt.Fprintf(sb, "Collected: %s\n", report.CollectedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Steps: %s\n", strings.Join(report.PerformedSteps, ", "))
	for _, e := range report.Errors {
		fmt.Fprintf(sb, "Error: %s\n", e)
	}
}
