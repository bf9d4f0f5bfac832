// Package report provides report output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the canonical line-oriented text report
//   - MarkdownWriter: a metadata table and one section per collector
//   - JSONWriter: structured JSON output for tool integration
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
