package model

import (
	"strings"
	"time"
)

// Section is the text produced by one collector (or one collector method)
// during a single invocation. Sections are concatenated, never merged or
// deduplicated.
type Section struct {
	// Collector is the name of the collector that produced the section.
	Collector string `json:"collector"`

	// Title is a short human-readable label used by non-text writers.
	Title string `json:"title"`

	// Body is the exact report text, including its own "=== ... ===" headers.
	Body string `json:"body"`
}

// Report is the ordered concatenation of all sections for one entry point.
// It only exists as a return value or as a persisted history snapshot.
type Report struct {
	// Entry is the entry point that produced the report.
	Entry Entry `json:"entry"`

	// Hostname is the node name of the machine the report was taken on.
	Hostname string `json:"hostname,omitempty"`

	// CollectedAt is when collection started.
	CollectedAt time.Time `json:"collected_at"`

	// Header is written before all sections. Only the comprehensive
	// report uses one.
	Header string `json:"header,omitempty"`

	// Sections holds collector output in execution order.
	Sections []Section `json:"sections"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Errors holds step failures that were contained by the pipeline.
	// They are already rendered inline in the affected section.
	Errors []string `json:"errors,omitempty"`
}

// NewReport creates an empty report for the given entry point.
func NewReport(entry Entry) *Report {
	return &Report{
		Entry:       entry,
		CollectedAt: time.Now(),
		Sections:    make([]Section, 0),
	}
}

// AddSection appends a section to the report.
func (r *Report) AddSection(s Section) {
	r.Sections = append(r.Sections, s)
}

// AddError records a contained failure.
func (r *Report) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// HasErrors returns true if any pipeline step failed.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Text returns the plain-text report: the header followed by every section
// body, in order. This is the string returned by the entry points.
func (r *Report) Text() string {
	var sb strings.Builder
	sb.WriteString(r.Header)
	for _, s := range r.Sections {
		sb.WriteString(s.Body)
	}
	return sb.String()
}

// Section returns the first section produced by the named collector.
func (r *Report) Section(collector string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Collector == collector {
			return s, true
		}
	}
	return Section{}, false
}
