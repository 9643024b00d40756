package bookmarks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "defisim/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS learning_links (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteStore persists learning links in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable WAL mode for crash recovery
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces a link.
func (s *SQLiteStore) Save(ctx context.Context, link Link) error {
	const query = `INSERT OR REPLACE INTO learning_links (id, title, url, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, link.ID, link.Title, link.URL, link.CreatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

// List returns all links ordered by creation time, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Link, error) {
	const query = `SELECT id, title, url, created_at FROM learning_links ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		var createdMillis int64
		if err := rows.Scan(&link.ID, &link.Title, &link.URL, &createdMillis); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		link.CreatedAt = time.UnixMilli(createdMillis).UTC()
		links = append(links, link)
	}
	return links, rows.Err()
}

// Delete removes a link by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM learning_links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
