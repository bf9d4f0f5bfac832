package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/devfingerprint/internal/model"
)

// FileName is the name of the history database inside the data directory.
const FileName = "history.db"

// timeLayout is fixed width so collected_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ReportDB provides SQLite-based storage for collected reports.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ReportDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ReportDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ReportDB) createTables() error {
	schema := `
	-- One row per collection run
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry TEXT NOT NULL,
		hostname TEXT,
		collected_at TEXT NOT NULL,
		digest TEXT NOT NULL,
		section_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_entry ON reports(entry);
	CREATE INDEX IF NOT EXISTS idx_reports_collected_at ON reports(collected_at);

	-- Section digests in report order
	CREATE TABLE IF NOT EXISTS report_sections (
		report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		collector TEXT NOT NULL,
		title TEXT,
		digest TEXT NOT NULL,
		PRIMARY KEY(report_id, position)
	);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex-encoded blake2b-256 digest of s.
func Digest(s string) string {
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SaveReport stores a report and its section digests.
// Returns the database ID of the new row.
func (rdb *ReportDB) SaveReport(ctx context.Context, report *model.Report) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO reports (entry, hostname, collected_at, digest, section_count, error_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		report.Entry.String(),
		report.Hostname,
		report.CollectedAt.UTC().Format(timeLayout),
		Digest(report.Text()),
		len(report.Sections),
		len(report.Errors),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}

	for i, s := range report.Sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO report_sections (report_id, position, collector, title, digest) VALUES (?, ?, ?, ?, ?)`,
			id, i, s.Collector, s.Title, Digest(s.Body),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save section digest: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report: %w", err)
	}

	return id, nil
}

// GetLatestReport retrieves the most recent report for an entry point.
// Returns nil without error if no report exists.
func (rdb *ReportDB) GetLatestReport(ctx context.Context, entry model.Entry) (*model.Report, error) {
	query := `
	SELECT report_json FROM reports
	WHERE entry = ?
	ORDER BY collected_at DESC, id DESC
	LIMIT 1
	`
	return rdb.queryReport(ctx, query, entry.String())
}

// GetReportByID retrieves a report by its database ID.
// Returns nil without error if no report exists.
func (rdb *ReportDB) GetReportByID(ctx context.Context, id int64) (*model.Report, error) {
	return rdb.queryReport(ctx, `SELECT report_json FROM reports WHERE id = ?`, id)
}

// GetPreviousReport retrieves the report collected for the same entry just
// before the report with the given ID.
func (rdb *ReportDB) GetPreviousReport(ctx context.Context, entry model.Entry, beforeID int64) (*model.Report, error) {
	query := `
	SELECT report_json FROM reports
	WHERE entry = ? AND id < ?
	ORDER BY collected_at DESC, id DESC
	LIMIT 1
	`
	return rdb.queryReport(ctx, query, entry.String(), beforeID)
}

// queryReport runs a single-row query returning report_json.
func (rdb *ReportDB) queryReport(ctx context.Context, query string, args ...any) (*model.Report, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListEntries returns the entry points that have stored reports.
func (rdb *ReportDB) ListEntries(ctx context.Context) ([]model.Entry, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT entry FROM reports ORDER BY entry`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, model.Entry(entry))
	}

	return entries, rows.Err()
}

// ReportMetadata contains summary information about a stored report.
// This is used for displaying history without loading the full report.
type ReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64 `json:"id"`

	// Entry is the entry point that produced the report.
	Entry model.Entry `json:"entry"`

	// Hostname is the node name recorded with the report.
	Hostname string `json:"hostname,omitempty"`

	// CollectedAt is when collection started.
	CollectedAt time.Time `json:"collected_at"`

	// Digest is the blake2b-256 digest of the full report text.
	Digest string `json:"digest"`

	// SectionCount is the number of sections in the report.
	SectionCount int `json:"section_count"`

	// ErrorCount is the number of contained step failures.
	ErrorCount int `json:"error_count"`
}

// GetReportHistory retrieves report metadata for an entry point, newest first.
func (rdb *ReportDB) GetReportHistory(ctx context.Context, entry model.Entry) ([]ReportMetadata, error) {
	query := `
	SELECT id, entry, hostname, collected_at, digest, section_count, error_count
	FROM reports
	WHERE entry = ?
	ORDER BY collected_at DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, entry.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var (
			meta      ReportMetadata
			entryName string
			hostname  sql.NullString
			timestamp string
		)

		err := rows.Scan(&meta.ID, &entryName, &hostname, &timestamp, &meta.Digest, &meta.SectionCount, &meta.ErrorCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Entry = model.Entry(entryName)
		meta.Hostname = hostname.String
		meta.CollectedAt = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// SectionDigest is a stored section digest.
type SectionDigest struct {
	Position  int
	Collector string
	Title     string
	Digest    string
}

// GetSectionDigests retrieves the section digests of a report in order.
func (rdb *ReportDB) GetSectionDigests(ctx context.Context, reportID int64) ([]SectionDigest, error) {
	query := `
	SELECT position, collector, title, digest
	FROM report_sections
	WHERE report_id = ?
	ORDER BY position
	`

	rows, err := rdb.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section digests: %w", err)
	}
	defer rows.Close()

	var digests []SectionDigest
	for rows.Next() {
		var (
			d     SectionDigest
			title sql.NullString
		)
		if err := rows.Scan(&d.Position, &d.Collector, &title, &d.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan section digest: %w", err)
		}
		d.Title = title.String
		digests = append(digests, d)
	}

	return digests, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
