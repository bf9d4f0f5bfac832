package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/devfingerprint/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// Each section body is kept verbatim inside a text code block.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatus(md, report)
	w.writeSections(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Device Fingerprint Report")
	md.PlainText("")

	host := report.Hostname
	if host == "" {
		host = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Entry", entryTitle(report.Entry)},
			{"Host", "`" + host + "`"},
			{"Collected At", report.CollectedAt.Format("2006-01-02 15:04:05 MST")},
			{"Sections", strconv.Itoa(len(report.Sections))},
			{"Steps", strings.Join(report.PerformedSteps, ", ")},
		},
	})
	md.PlainText("")
}

// writeStatus writes an alert listing contained failures, if any.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, report *model.Report) {
	if !report.HasErrors() {
		md.Tip("All collection steps completed.")
		md.PlainText("")
		return
	}
	md.Warningf("%d collection step(s) failed; their output is incomplete.", len(report.Errors))
	md.PlainText("")
	md.BulletList(report.Errors...)
	md.PlainText("")
}

// writeSections writes one H2 per section with its body verbatim.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, report *model.Report) {
	if report.Header != "" {
		md.CodeBlocks(markdown.SyntaxHighlight("text"), strings.TrimRight(report.Header, "\n"))
		md.PlainText("")
	}

	for _, s := range report.Sections {
		title := s.Title
		if title == "" {
			title = s.Collector
		}
		if s.Collector != "" && s.Collector != title {
			title += " (" + s.Collector + ")"
		}
		md.H2(title)
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlight("text"), strings.TrimRight(s.Body, "\n"))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by devfingerprint*")
}

// entryTitle formats an entry name for display, e.g. "system-files" as
// "System-Files".
func entryTitle(e model.Entry) string {
	return cases.Title(language.English).String(e.String())
}
