// Package sqlite provides a SQLite-backed durable event journal.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/atelier.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/atelier.space/internal/state/event"
	"github.com/louisbranch/atelier.space/internal/storage"
	"github.com/louisbranch/atelier.space/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists journal events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite event store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendEvent inserts one journal event.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if evt.Seq == 0 {
		return event.Event{}, fmt.Errorf("event seq is required")
	}
	if evt.Type == "" {
		return event.Event{}, fmt.Errorf("event type is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO journal_events (
		   seq,
		   id,
		   hash,
		   timestamp,
		   type,
		   command_id,
		   workflow_id,
		   source,
		   entity_type,
		   entity_id,
		   payload
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(evt.Seq),
		evt.ID,
		evt.Hash,
		toMillis(evt.Timestamp),
		string(evt.Type),
		evt.CommandID,
		evt.WorkflowID,
		string(evt.Source),
		evt.EntityType,
		evt.EntityID,
		[]byte(evt.PayloadJSON),
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}
	return evt, nil
}

// ListEvents returns all journal events in sequence order.
func (s *Store) ListEvents(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, id, hash, timestamp, type, command_id, workflow_id, source, entity_type, entity_id, payload
		 FROM journal_events
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			seq       int64
			timestamp int64
			evtType   string
			source    string
			payload   []byte
			evt       event.Event
		)
		if err := rows.Scan(
			&seq,
			&evt.ID,
			&evt.Hash,
			&timestamp,
			&evtType,
			&evt.CommandID,
			&evt.WorkflowID,
			&source,
			&evt.EntityType,
			&evt.EntityID,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = fromMillis(timestamp)
		evt.Type = event.Type(evtType)
		evt.Source = event.Source(source)
		evt.PayloadJSON = payload
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// LatestSeq returns the most recent sequence number, or zero when empty.
func (s *Store) LatestSeq(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var seq sql.NullInt64
	row := s.sqlDB.QueryRowContext(ctx, `SELECT MAX(seq) FROM journal_events`)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

var _ storage.EventStore = (*Store)(nil)
