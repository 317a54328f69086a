package catalog

import (
	"database/sql"
	"fmt"

	"dircmp-go/internal/catalog/migrations"
	"dircmp-go/internal/dircmp"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCatalog implements the Catalog interface using SQLite. The schema
// is migrated to the latest version on open, so a fresh catalog file is
// usable immediately.
type SQLiteCatalog struct {
	db    *sql.DB
	clock dircmp.Clock
	path  string
}

// NewSQLiteCatalog opens (creating if needed) the catalog database at path.
// path can be a file path or ":memory:" for an in-memory catalog.
func NewSQLiteCatalog(path string, clock dircmp.Clock) (*SQLiteCatalog, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog schema: %w", err)
	}

	return &SQLiteCatalog{
		db:    db,
		clock: clock,
		path:  path,
	}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// This is exported for use in tests that need a properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if path == ":memory:" {
		// Every new pool connection to :memory: opens a distinct empty
		// database, so the pool must be pinned to a single connection.
		db.SetMaxOpenConns(1)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// StartRun inserts a new run in the running state.
func (c *SQLiteCatalog) StartRun(operation, root, recordPath string) (*Run, error) {
	now := c.clock.Now()

	res, err := c.db.Exec(`
		INSERT INTO runs (operation, root, record_path, started_at, status)
		VALUES (?, ?, ?, ?, ?)`,
		operation, root, recordPath, now, StatusRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}

	return &Run{
		ID:         id,
		Operation:  operation,
		Root:       root,
		RecordPath: recordPath,
		StartedAt:  now,
		Status:     StatusRunning,
	}, nil
}

// FinishRun stamps the finish time and persists status and counters.
func (c *SQLiteCatalog) FinishRun(run *Run) error {
	run.FinishedAt = sql.NullTime{Time: c.clock.Now(), Valid: true}

	_, err := c.db.Exec(`
		UPDATE runs
		SET finished_at = ?, status = ?, files_seen = ?,
		    only_in_directory = ?, only_in_record = ?, differs = ?
		WHERE id = ?`,
		run.FinishedAt.Time, run.Status, run.FilesSeen,
		run.OnlyInDirectory, run.OnlyInRecord, run.Differs,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recent first.
func (c *SQLiteCatalog) RecentRuns(limit int) ([]*Run, error) {
	rows, err := c.db.Query(`
		SELECT id, operation, root, record_path, started_at, finished_at,
		       status, files_seen, only_in_directory, only_in_record, differs
		FROM runs
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID, &run.Operation, &run.Root, &run.RecordPath,
			&run.StartedAt, &run.FinishedAt, &run.Status,
			&run.FilesSeen, &run.OnlyInDirectory, &run.OnlyInRecord, &run.Differs,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}

	return runs, nil
}

// Path returns the catalog file path (or ":memory:" for in-memory catalogs).
func (c *SQLiteCatalog) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteCatalog implements the Catalog interface
var _ Catalog = (*SQLiteCatalog)(nil)
