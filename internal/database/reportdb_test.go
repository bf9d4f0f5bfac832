package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/devfingerprint/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *ReportDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newTestReport creates a report with one section per body.
func newTestReport(entry model.Entry, at time.Time, bodies ...string) *model.Report {
	r := model.NewReport(entry)
	r.Hostname = "localhost"
	r.CollectedAt = at
	for _, b := range bodies {
		r.AddSection(model.Section{Collector: "SystemCollector", Title: "System", Body: b})
	}
	return r
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("expected directory not to be created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

// TestSaveAndGetReport tests storing and loading reports.
func TestSaveAndGetReport(t *testing.T) {
	t.Parallel()

	t.Run("round trips a report", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		report := newTestReport(model.EntryKernel, time.Now(), "=== a ===\nx\n", "=== b ===\ny\n")
		report.AddError("kernel_files: boom")

		id, err := db.SaveReport(ctx, report)
		if err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}

		got, err := db.GetReportByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}
		if got == nil {
			t.Fatal("expected report, got nil")
		}
		if got.Text() != report.Text() {
			t.Errorf("expected text %q, got %q", report.Text(), got.Text())
		}
		if len(got.Errors) != 1 {
			t.Errorf("expected 1 error, got %d", len(got.Errors))
		}
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		got, err := db.GetReportByID(context.Background(), 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Error("expected nil report")
		}
	})

	t.Run("latest report is the newest per entry", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		for i, body := range []string{"first\n", "second\n", "third\n"} {
			if _, err := db.SaveReport(ctx, newTestReport(model.EntryDRM, base.Add(time.Duration(i)*time.Second), body)); err != nil {
				t.Fatalf("failed to save report: %v", err)
			}
		}
		if _, err := db.SaveReport(ctx, newTestReport(model.EntryKernel, base.Add(time.Hour), "other\n")); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		got, err := db.GetLatestReport(ctx, model.EntryDRM)
		if err != nil {
			t.Fatalf("failed to get latest report: %v", err)
		}
		if got == nil || got.Text() != "third\n" {
			t.Errorf("expected third report, got %+v", got)
		}

		missing, err := db.GetLatestReport(ctx, model.EntryNetwork)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if missing != nil {
			t.Error("expected nil for entry without reports")
		}
	})

	t.Run("sub-second timestamps sort correctly", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		if _, err := db.SaveReport(ctx, newTestReport(model.EntryDRM, base.Add(500*time.Millisecond), "later\n")); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
		if _, err := db.SaveReport(ctx, newTestReport(model.EntryDRM, base, "earlier\n")); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		got, err := db.GetLatestReport(ctx, model.EntryDRM)
		if err != nil {
			t.Fatalf("failed to get latest report: %v", err)
		}
		if got == nil || got.Text() != "later\n" {
			t.Errorf("expected later report, got %+v", got)
		}
	})
}

// TestGetPreviousReport tests finding the report before a given one.
func TestGetPreviousReport(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	firstID, err := db.SaveReport(ctx, newTestReport(model.EntryCommon, base, "one\n"))
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}
	secondID, err := db.SaveReport(ctx, newTestReport(model.EntryCommon, base.Add(time.Minute), "two\n"))
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	prev, err := db.GetPreviousReport(ctx, model.EntryCommon, secondID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev == nil || prev.Text() != "one\n" {
		t.Errorf("expected first report, got %+v", prev)
	}

	none, err := db.GetPreviousReport(ctx, model.EntryCommon, firstID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Error("expected no report before the first one")
	}
}

// TestHistory tests history metadata and entry listing.
func TestHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older := newTestReport(model.EntryAll, base, "a\n", "b\n")
	newer := newTestReport(model.EntryAll, base.Add(time.Hour), "a\n")
	newer.AddError("collect_CommonCollector: boom")

	for _, r := range []*model.Report{older, newer, newTestReport(model.EntryDRM, base, "d\n")} {
		if _, err := db.SaveReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	history, err := db.GetReportHistory(ctx, model.EntryAll)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if !history[0].CollectedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("expected newest first, got %v", history[0].CollectedAt)
	}
	if history[0].SectionCount != 1 || history[0].ErrorCount != 1 {
		t.Errorf("unexpected counts: %+v", history[0])
	}
	if history[1].Digest != Digest(older.Text()) {
		t.Error("expected digest of the report text")
	}
	if history[1].Hostname != "localhost" {
		t.Errorf("expected hostname localhost, got %s", history[1].Hostname)
	}

	entries, err := db.ListEntries(ctx)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 2 || entries[0] != model.EntryAll || entries[1] != model.EntryDRM {
		t.Errorf("unexpected entries: %v", entries)
	}

	digests, err := db.GetSectionDigests(ctx, history[1].ID)
	if err != nil {
		t.Fatalf("failed to get section digests: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("expected 2 section digests, got %d", len(digests))
	}
	if digests[1].Digest != Digest("b\n") || digests[1].Position != 1 {
		t.Errorf("unexpected section digest: %+v", digests[1])
	}
}

// TestDigest tests the blake2b digest helper.
func TestDigest(t *testing.T) {
	t.Parallel()

	// blake2b-256 of the empty string.
	const empty = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if got := Digest(""); got != empty {
		t.Errorf("expected %s, got %s", empty, got)
	}
	if Digest("a") == Digest("b") {
		t.Error("expected different digests for different input")
	}
}
