// Package sqlite provides a SQLite-backed spotlight storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tienisto/pub-dev/internal/platform/storage/sqlitemigrate"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists spotlight state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite spotlight store and applies embedded migrations.
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
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
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

// ReplaceVideos swaps the stored video pool in one transaction.
func (s *Store) ReplaceVideos(ctx context.Context, videos []storage.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	for i, video := range videos {
		if strings.TrimSpace(video.Key) == "" {
			return fmt.Errorf("video %d: key is required", i)
		}
		if strings.TrimSpace(video.URL) == "" {
			return fmt.Errorf("video %d: url is required", i)
		}
		if strings.TrimSpace(video.Title) == "" {
			return fmt.Errorf("video %d: title is required", i)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace videos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM spotlight_videos`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear videos: %w", err)
	}
	for i, video := range videos {
		createdAt := video.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO spotlight_videos (
			   key, url, title, description, thumbnail_url, position, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(video.Key),
			strings.TrimSpace(video.URL),
			strings.TrimSpace(video.Title),
			strings.TrimSpace(video.Description),
			strings.TrimSpace(video.ThumbnailURL),
			i,
			toMillis(createdAt),
		); err != nil {
			_ = tx.Rollback()
			if isUniqueViolation(err) {
				return fmt.Errorf("insert video %s: duplicate key in pool", video.Key)
			}
			return fmt.Errorf("insert video %s: %w", video.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace videos: %w", err)
	}
	return nil
}

// ListVideos returns the full video pool in position order.
func (s *Store) ListVideos(ctx context.Context) ([]storage.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT key, url, title, description, thumbnail_url, position, created_at
		   FROM spotlight_videos
		  ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []storage.Video
	for rows.Next() {
		var video storage.Video
		var createdAt int64
		if err := rows.Scan(
			&video.Key,
			&video.URL,
			&video.Title,
			&video.Description,
			&video.ThumbnailURL,
			&video.Position,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list videos: %w", err)
		}
		video.CreatedAt = fromMillis(createdAt)
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// AppendAuditEvent inserts one audit event record.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	timestamp := evt.Timestamp.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO spotlight_audit_events (
		   event_name, severity, method, path, status_code, trace_id, span_id, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.EventName,
		evt.Severity,
		evt.Method,
		evt.Path,
		evt.StatusCode,
		evt.TraceID,
		evt.SpanID,
		toMillis(timestamp),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent audit events, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, limit int) ([]storage.AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT event_name, severity, method, path, status_code, trace_id, span_id, created_at
		   FROM spotlight_audit_events
		  ORDER BY id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []storage.AuditEvent
	for rows.Next() {
		var evt storage.AuditEvent
		var createdAt int64
		if err := rows.Scan(
			&evt.EventName,
			&evt.Severity,
			&evt.Method,
			&evt.Path,
			&evt.StatusCode,
			&evt.TraceID,
			&evt.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		evt.Timestamp = fromMillis(createdAt)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.VideoStore = (*Store)(nil)
var _ storage.AuditEventStore = (*Store)(nil)
