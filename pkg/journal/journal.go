// Package journal keeps an append-only SQLite history of pipeline runs.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quill/pkg/schema"
)

// SQLite records runs in a single table. It is safe for concurrent use.
type SQLite struct {
	db   *sql.DB
	path string
}

// Open creates or opens the journal at path. ":memory:" keeps it in memory.
func Open(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	j := &SQLite{db: db, path: path}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func (j *SQLite) Path() string {
	return j.path
}

func (j *SQLite) initSchema() error {
	_, err := j.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		manuscript_uri TEXT NOT NULL DEFAULT '',
		metadata_uri TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`)
	return err
}

// Start inserts a new run.
func (j *SQLite) Start(ctx context.Context, rec schema.RunRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, topic, status, started_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Topic, string(rec.Status), formatTime(rec.StartedAt))
	if err != nil {
		return fmt.Errorf("journal start %s: %w", rec.ID, err)
	}
	return nil
}

// Finish stores the outcome of a run started earlier.
func (j *SQLite) Finish(ctx context.Context, rec schema.RunRecord) error {
	var errText string
	if rec.Error != nil {
		errText = rec.Error.Error()
	}
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET title = ?, status = ?, manuscript_uri = ?, metadata_uri = ?, error = ?, finished_at = ? WHERE id = ?`,
		rec.Title, string(rec.Status), rec.ManuscriptURI, rec.MetadataURI, errText, formatTime(rec.FinishedAt), rec.ID)
	if err != nil {
		return fmt.Errorf("journal finish %s: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("journal finish %s: %w", rec.ID, sql.ErrNoRows)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (j *SQLite) List(ctx context.Context, limit int) ([]schema.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, topic, title, status, manuscript_uri, metadata_uri, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}
	defer rows.Close()

	var out []schema.RunRecord
	for rows.Next() {
		var (
			rec               schema.RunRecord
			status, errText   string
			started, finished string
		)
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Title, &status, &rec.ManuscriptURI, &rec.MetadataURI, &errText, &started, &finished); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		rec.Status = schema.RunStatus(status)
		if errText != "" {
			rec.Error = errors.New(errText)
		}
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// timeLayout has a fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
