package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ai-culture-commons/corpusctl/internal/adapters/driven/audit/sqlite/migrations"
	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AuditStore = (*Store)(nil)

// Store is the SQLite-backed audit trail: one row per build run plus
// one row per file outcome within it.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the audit database at the given path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BeginRun records a run that has started, assigning run.ID when the
// caller did not.
func (s *Store) BeginRun(ctx context.Context, run *domain.Run) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, root, records)
		VALUES (?, ?, ?, 0)
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.Root)

	if err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	return nil
}

// FinishRun updates a run with its final counts and verdict.
func (s *Store) FinishRun(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, records = ?, verdict = ?
		WHERE id = ?
	`, formatNullableTime(run.FinishedAt), run.Records, string(run.Verdict), run.ID)

	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordEvent stores one per-file outcome.
func (s *Store) RecordEvent(ctx context.Context, event *domain.FileEvent) error {
	if event == nil || event.RunID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_events (run_id, path, identifier, status, reason)
		VALUES (?, ?, ?, ?, ?)
	`, event.RunID, event.Path, nullString(event.Identifier),
		string(event.Status), nullString(event.Reason))

	if err != nil {
		return fmt.Errorf("recording file event: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, root, records, verdict
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.Run
		var startedAt string
		var finishedAt, verdict sql.NullString
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt,
			&run.Root, &run.Records, &verdict); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		run.FinishedAt = parseNullableTime(finishedAt)
		if verdict.Valid {
			run.Verdict = domain.RunVerdict(verdict.String)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// ListEvents returns the events of a run in insertion order.
func (s *Store) ListEvents(ctx context.Context, runID string) ([]domain.FileEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, path, identifier, status, reason
		FROM file_events
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying file events: %w", err)
	}
	defer rows.Close()

	var events []domain.FileEvent //nolint:prealloc // size unknown from query
	for rows.Next() {
		var event domain.FileEvent
		var identifier, reason sql.NullString
		var status string
		if err := rows.Scan(&event.RunID, &event.Path, &identifier,
			&status, &reason); err != nil {
			return nil, fmt.Errorf("scanning file event: %w", err)
		}

		event.Identifier = identifier.String
		event.Status = domain.FileEventStatus(status)
		event.Reason = reason.String
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file events: %w", err)
	}

	return events, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_audit.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
