package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/auditcsv/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func sampleRun(workDir string, ts time.Time) *Run {
	summary := model.NewSummary()
	summary.Blocks = 3
	summary.Duplicates = 1

	vulns := []model.Vulnerability{
		{Severity: "high", Reason: "Prototype Pollution", Package: "lodash", PatchedIn: ">=4.17.19", Dependency: "lodash"},
		{Severity: "moderate", Reason: "ReDoS", Package: "minimatch", PatchedIn: ">=3.0.2", Dependency: "glob"},
	}
	for _, v := range vulns {
		summary.AddEmitted(v)
	}

	return &Run{
		WorkDir:         workDir,
		Format:          "csv",
		Timestamp:       ts,
		Summary:         summary,
		Vulnerabilities: vulns,
	}
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

		if _, err := os.Stat(filepath.Join(dbDir, DBFile)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, DBFile) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns ErrDatabaseNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveRun(t.Context(), sampleRun("/srv/app", time.Time{})); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(t.Context(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run after reopen, got %d", len(runs))
		}
	})
}

// TestDefaultOptions tests default option values.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true")
	}
}

// TestSaveRun tests storing and reading back a run.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("save and retrieve run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
		run := sampleRun("/srv/app", ts)

		id, err := db.SaveRun(t.Context(), run)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if id == 0 || run.ID != id {
			t.Errorf("expected run ID to be set, got id=%d run.ID=%d", id, run.ID)
		}

		runs, err := db.ListRuns(t.Context(), 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		got := runs[0]
		if got.ID != id || got.WorkDir != "/srv/app" || got.Format != "csv" {
			t.Errorf("unexpected metadata %+v", got)
		}
		if !got.Timestamp.Equal(ts) {
			t.Errorf("expected timestamp %v, got %v", ts, got.Timestamp)
		}
		if got.Summary.Emitted != 2 || got.Summary.Duplicates != 1 || got.Summary.Blocks != 3 {
			t.Errorf("unexpected summary %+v", got.Summary)
		}
		if got.Summary.Count(model.SeverityHigh) != 1 || got.Summary.Count(model.SeverityModerate) != 1 {
			t.Errorf("unexpected severity counts %v", got.Summary.BySeverity)
		}

		vulns, err := db.GetRunVulnerabilities(t.Context(), id)
		if err != nil {
			t.Fatalf("failed to get vulnerabilities: %v", err)
		}
		if len(vulns) != len(run.Vulnerabilities) {
			t.Fatalf("expected %d vulnerabilities, got %d", len(run.Vulnerabilities), len(vulns))
		}
		for i := range vulns {
			if vulns[i] != run.Vulnerabilities[i] {
				t.Errorf("vulnerability %d: expected %+v, got %+v", i, run.Vulnerabilities[i], vulns[i])
			}
		}
	})

	t.Run("nil summary and zero timestamp are filled in", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		before := time.Now().UTC().Add(-time.Second).Truncate(time.Second)

		if _, err := db.SaveRun(t.Context(), &Run{WorkDir: ".", Format: "json"}); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		runs, err := db.ListRuns(t.Context(), 1)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].Timestamp.Before(before) {
			t.Errorf("expected current timestamp, got %v", runs[0].Timestamp)
		}
		if runs[0].Summary == nil || runs[0].Summary.Emitted != 0 {
			t.Errorf("expected empty summary, got %+v", runs[0].Summary)
		}
	})
}

// TestListRuns tests ordering and limits.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		if _, err := db.SaveRun(t.Context(), sampleRun("/srv/app", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(t.Context(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].Timestamp.After(runs[i-1].Timestamp) {
				t.Errorf("runs not in descending order: %v after %v", runs[i].Timestamp, runs[i-1].Timestamp)
			}
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(t.Context(), 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}

// TestGetRunVulnerabilities tests lookups of unknown runs.
func TestGetRunVulnerabilities(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	_, err := db.GetRunVulnerabilities(t.Context(), 42)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

// TestParseTimestamp tests the supported timestamp formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	for _, s := range []string{"2026-03-01 12:30:00", "2026-03-01T12:30:00Z", "2026-03-01T12:30:00"} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}

	if got := parseTimestamp("not a time"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
