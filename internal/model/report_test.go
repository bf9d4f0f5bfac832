package model

import (
	"errors"
	"testing"
	"time"
)

// TestNewReport tests the Report constructor.
func TestNewReport(t *testing.T) {
	t.Parallel()

	report := NewReport(EntryDRM)

	t.Run("sets entry", func(t *testing.T) {
		t.Parallel()
		if report.Entry != EntryDRM {
			t.Errorf("got %q, expected %q", report.Entry, EntryDRM)
		}
	})

	t.Run("sets collection timestamp", func(t *testing.T) {
		t.Parallel()
		if report.CollectedAt.IsZero() {
			t.Error("expected CollectedAt to be set")
		}
		if time.Since(report.CollectedAt) > time.Second {
			t.Error("CollectedAt is too old")
		}
	})

	t.Run("initializes sections", func(t *testing.T) {
		t.Parallel()
		if report.Sections == nil {
			t.Error("expected Sections to be initialized")
		}
	})
}

// TestReportText tests plain-text concatenation.
func TestReportText(t *testing.T) {
	t.Parallel()

	t.Run("concatenates header and sections in order", func(t *testing.T) {
		t.Parallel()

		report := NewReport(EntryAll)
		report.Header = "HEADER\n"
		report.AddSection(Section{Collector: "a", Body: "first\n"})
		report.AddSection(Section{Collector: "b", Body: "second\n"})

		got := report.Text()
		expected := "HEADER\nfirst\nsecond\n"
		if got != expected {
			t.Errorf("got %q, expected %q", got, expected)
		}
	})

	t.Run("empty report renders empty string", func(t *testing.T) {
		t.Parallel()

		if got := NewReport(EntryCommon).Text(); got != "" {
			t.Errorf("expected empty text, got %q", got)
		}
	})
}

// TestReportSection tests section lookup by collector name.
func TestReportSection(t *testing.T) {
	t.Parallel()

	report := NewReport(EntryAll)
	report.AddSection(Section{Collector: "SystemCollector", Body: "sys"})
	report.AddSection(Section{Collector: "CommonCollector", Body: "common"})

	s, ok := report.Section("CommonCollector")
	if !ok {
		t.Fatal("expected section to be found")
	}
	if s.Body != "common" {
		t.Errorf("got %q, expected %q", s.Body, "common")
	}

	if _, ok := report.Section("missing"); ok {
		t.Error("expected missing section to not be found")
	}
}

// TestReportErrors tests error bookkeeping.
func TestReportErrors(t *testing.T) {
	t.Parallel()

	report := NewReport(EntryCommon)
	if report.HasErrors() {
		t.Error("new report should have no errors")
	}

	report.AddError("boom")
	if !report.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

// TestStepResult tests inline rendering of step results.
func TestStepResult(t *testing.T) {
	t.Parallel()

	t.Run("successful step renders output only", func(t *testing.T) {
		t.Parallel()

		r := StepResult{Label: "device info", Output: "Device Model: Pixel 7\n"}
		if !r.OK() {
			t.Error("expected OK")
		}
		if r.Render() != "Device Model: Pixel 7\n" {
			t.Errorf("unexpected render: %q", r.Render())
		}
	})

	t.Run("failed step appends error line", func(t *testing.T) {
		t.Parallel()

		r := StepResult{
			Label:  "network info",
			Output: "=== Network Information ===\n\n",
			Err:    errors.New("no such device"),
		}
		expected := "=== Network Information ===\n\nError collecting network info: no such device\n"
		if r.Render() != expected {
			t.Errorf("got %q, expected %q", r.Render(), expected)
		}
	})
}
