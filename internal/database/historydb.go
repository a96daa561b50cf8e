package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/auditcsv/internal/model"
)

// DBFile is the database file name inside the database directory.
const DBFile = "auditcsv.db"

// timestampLayout is how run timestamps are written. It sorts lexically.
const timestampLayout = "2006-01-02 15:04:05"

// HistoryDB stores past conversion runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFile)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		work_dir TEXT NOT NULL,
		format TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	CREATE TABLE IF NOT EXISTS vulnerabilities (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		package TEXT NOT NULL,
		severity TEXT NOT NULL,
		reason TEXT NOT NULL,
		patched_in TEXT NOT NULL,
		dependency TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_vulns_package ON vulnerabilities(package);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one saved conversion.
type Run struct {
	// ID is assigned by SaveRun.
	ID int64

	// WorkDir is the project directory the run was made for.
	WorkDir string

	// Format is the report format that was written.
	Format string

	// Timestamp is when the run finished. SaveRun uses the current time
	// when it is zero.
	Timestamp time.Time

	// Summary holds the run counters. It may be nil.
	Summary *model.Summary

	// Vulnerabilities are the emitted records in report order.
	Vulnerabilities []model.Vulnerability
}

// SaveRun stores run and its records in a single transaction and returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *Run) (int64, error) {
	summary := run.Summary
	if summary == nil {
		summary = model.NewSummary()
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	timestamp := run.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // Rollback after Commit is a no-op

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (work_dir, format, timestamp, summary_json) VALUES (?, ?, ?, ?)`,
		run.WorkDir,
		run.Format,
		timestamp.UTC().Format(timestampLayout),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for i, v := range run.Vulnerabilities {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO vulnerabilities (run_id, position, package, severity, reason, patched_in, dependency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, v.Package, v.Severity, v.Reason, v.PatchedIn, v.Dependency)
		if err != nil {
			return 0, fmt.Errorf("failed to save vulnerability %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return id, nil
}

// RunMetadata describes a saved run without its records.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// WorkDir is the project directory the run was made for.
	WorkDir string

	// Format is the report format that was written.
	Format string

	// Timestamp is when the run finished, in UTC.
	Timestamp time.Time

	// Summary holds the run counters.
	Summary *model.Summary
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, work_dir, format, timestamp, summary_json
	FROM runs
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := hdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.WorkDir, &meta.Format, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Summary = model.NewSummary()
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), meta.Summary); err != nil {
				meta.Summary = model.NewSummary()
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunVulnerabilities returns the records of run id in report order.
func (hdb *HistoryDB) GetRunVulnerabilities(ctx context.Context, id int64) ([]model.Vulnerability, error) {
	var exists int
	err := hdb.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT package, severity, reason, patched_in, dependency
	FROM vulnerabilities
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vulnerabilities: %w", err)
	}
	defer rows.Close()

	var results []model.Vulnerability
	for rows.Next() {
		var v model.Vulnerability
		if err := rows.Scan(&v.Package, &v.Severity, &v.Reason, &v.PatchedIn, &v.Dependency); err != nil {
			return nil, fmt.Errorf("failed to scan vulnerability: %w", err)
		}
		results = append(results, v)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp parses s with each known format, returning zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
