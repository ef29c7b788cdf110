package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	"github.com/log-sentinel/backend/internal/models"
	"github.com/marcboeker/go-duckdb"
)

// EventStore spools a session's security events into a temporary DuckDB
// file so large analysis runs can be paged without holding every event in
// the response path. The store lives for the session and is removed on
// Close.
type EventStore struct {
	db     *sql.DB
	dbPath string
	count  int
}

// NewEventStore creates a DuckDB-backed event store in the given temp
// directory. Zero-valued tuning arguments fall back to conservative defaults.
func NewEventStore(tempDir, sessionID string, threads int, memoryLimit string) (*EventStore, error) {
	if threads <= 0 {
		threads = 2
	}
	if memoryLimit == "" {
		memoryLimit = "256MB"
	}
	dbPath := filepath.Join(tempDir, fmt.Sprintf("session_%s.duckdb", sessionID))

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			fmt.Sprintf("PRAGMA memory_limit='%s'", memoryLimit),
			fmt.Sprintf("PRAGMA threads=%d", threads),
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE events (
			seq         INTEGER NOT NULL,
			line_number INTEGER NOT NULL,
			category    VARCHAR NOT NULL,
			severity    VARCHAR NOT NULL,
			ts          VARCHAR,
			source_file VARCHAR,
			line_text   VARCHAR
		)
	`)
	if err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("creating events table: %w", err)
	}

	return &EventStore{db: db, dbPath: dbPath}, nil
}

// InsertEvents appends events in order, preserving the snapshot's event
// sequence.
func (s *EventStore) InsertEvents(events []models.SecurityEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO events (seq, line_number, category, severity, ts, source_file, line_text) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(s.count, ev.LineNumber, ev.Category, string(ev.Severity), ev.Timestamp, ev.SourceFile, ev.LineText); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting event: %w", err)
		}
		s.count++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing events: %w", err)
	}
	return nil
}

// Count returns the number of stored events.
func (s *EventStore) Count() int {
	return s.count
}

// Page returns one page of events in insertion order. Page numbers are
// 1-based.
func (s *EventStore) Page(ctx context.Context, page, pageSize int) ([]models.SecurityEvent, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := s.db.QueryContext(ctx,
		`SELECT line_number, category, severity, ts, source_file, line_text
		 FROM events ORDER BY seq LIMIT ? OFFSET ?`, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := make([]models.SecurityEvent, 0, pageSize)
	for rows.Next() {
		var ev models.SecurityEvent
		var severity string
		if err := rows.Scan(&ev.LineNumber, &ev.Category, &severity, &ev.Timestamp, &ev.SourceFile, &ev.LineText); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		ev.Severity = models.Severity(severity)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases the database and removes the temp file.
func (s *EventStore) Close() error {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	if s.dbPath != "" {
		os.Remove(s.dbPath)
	}
	return nil
}
