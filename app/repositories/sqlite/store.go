// Package sqlite provides the SQLite-backed persistence gateway.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postboard/app/repositories"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

var _ repositories.Store = (*Store)(nil)

// Store persists posts, comments and keyword alerts in SQLite.
type Store struct {
	sqlDB    *sql.DB
	posts    *PostRepository
	comments *CommentRepository
	alerts   *AlertRepository
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path, creating parent directories, and
// applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return New(sqlDB), nil
}

// New wraps an already migrated database handle.
func New(sqlDB *sql.DB) *Store {
	return &Store{
		sqlDB:    sqlDB,
		posts:    &PostRepository{db: sqlDB},
		comments: &CommentRepository{db: sqlDB},
		alerts:   &AlertRepository{db: sqlDB},
	}
}

func (s *Store) Posts() repositories.PostRepository       { return s.posts }
func (s *Store) Comments() repositories.CommentRepository { return s.comments }
func (s *Store) Alerts() repositories.AlertRepository     { return s.alerts }

// Backup writes a consistent copy of the database to dest.
func (s *Store) Backup(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup target %s already exists", dest)
	}
	if _, err := s.sqlDB.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return errors.Wrap(err, "vacuum into backup")
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// classifyMiss tells apart a missing row from a password mismatch after a
// conditional write touched nothing.
func classifyMiss(ctx context.Context, db *sql.DB, table string, id int) error {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return errors.Wrapf(err, "check %s %d", table, id)
	}
	if !exists {
		return repositories.ErrNotFound
	}
	return repositories.ErrPasswordMismatch
}
