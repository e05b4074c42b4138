// Package storage persists the ingestion ledger: which uploaded documents
// each pipeline stage has handled and with what result. The ledger survives
// restarts so the startup re-scan can tell a leftover from a duplicate.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// Document processing statuses.
const (
	StatusSummarized = "summarized"
	StatusPublished  = "published"
	StatusFailed     = "failed"
)

// LedgerEntry is one processed-document record.
type LedgerEntry struct {
	Filename    string
	Stage       string
	Status      string
	Detail      string
	ProcessedAt time.Time
}

// Ledger wraps the SQLite connection.
type Ledger struct {
	conn *sql.DB
	path string
}

// Open creates the ledger database and initializes its schema.
func Open(dbPath string) (*Ledger, error) {
	// Ensure directory exists (skip for in-memory database)
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create ledger directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// Single writer, so a small pool is enough
	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	// Enable WAL mode for better concurrency between the two stages
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ledger: %w", err)
	}

	l := &Ledger{conn: conn, path: dbPath}
	if err := l.initSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS processed_documents (
		filename TEXT NOT NULL,
		stage TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		processed_at INTEGER NOT NULL,
		PRIMARY KEY (filename, stage)
	);
	CREATE INDEX IF NOT EXISTS idx_processed_status ON processed_documents(status);
	`

	if _, err := l.conn.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create processed_documents table: %w", err)
	}
	return nil
}

// Record upserts the outcome of handling filename in stage. A retry after a
// failure overwrites the failed row.
func (l *Ledger) Record(ctx context.Context, filename, stage, status, detail string) error {
	query := `
	INSERT INTO processed_documents (filename, stage, status, detail, processed_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(filename, stage) DO UPDATE SET
		status = excluded.status,
		detail = excluded.detail,
		processed_at = excluded.processed_at
	`

	if _, err := l.conn.ExecContext(ctx, query, filename, stage, status, detail, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

// Status returns the recorded status for filename in stage, or "" when the
// document was never handled there.
func (l *Ledger) Status(ctx context.Context, filename, stage string) (string, error) {
	var status string
	err := l.conn.QueryRowContext(ctx,
		`SELECT status FROM processed_documents WHERE filename = ? AND stage = ?`,
		filename, stage).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query ledger: %w", err)
	}
	return status, nil
}

// Entries returns all ledger rows for a stage, newest first.
func (l *Ledger) Entries(ctx context.Context, stage string) ([]LedgerEntry, error) {
	rows, err := l.conn.QueryContext(ctx,
		`SELECT filename, stage, status, detail, processed_at
		 FROM processed_documents WHERE stage = ? ORDER BY processed_at DESC`,
		stage)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		var ts int64
		if err := rows.Scan(&e.Filename, &e.Stage, &e.Status, &e.Detail, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.ProcessedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}
