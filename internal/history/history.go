// Package history persists recent graph files and saved camera views in
// sqlite, keyed by absolute file path.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// RecentFile is one row of the recent-files list.
type RecentFile struct {
	Path       string
	LastOpened time.Time
}

// SavedView is a named camera position over one graph file.
type SavedView struct {
	ID        string
	File      string
	Name      string
	CenterX   float64
	CenterY   float64
	Scale     float64
	CreatedAt time.Time
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and brings
// its schema up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// now returns UTC time. The driver stores it in a format that sorts
// chronologically, which RecentFiles and ViewsFor rely on.
func now() time.Time {
	return time.Now().UTC()
}

// TouchRecent records that a file was opened, bumping it to the top of the
// recent list.
func (s *Store) TouchRecent(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO recent_files(path, last_opened)
	VALUES (?, ?)
	ON CONFLICT(path) DO UPDATE SET
	 last_opened=excluded.last_opened;
	`, path, now())
	return err
}

// RecentFiles returns the most recently opened files, newest first.
func (s *Store) RecentFiles(ctx context.Context, limit int) ([]RecentFile, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT path, last_opened FROM recent_files
	ORDER BY last_opened DESC, path
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecentFile
	for rows.Next() {
		var rf RecentFile
		if err := rows.Scan(&rf.Path, &rf.LastOpened); err != nil {
			return nil, err
		}
		out = append(out, rf)
	}
	return out, rows.Err()
}

// SaveView stores a camera view. A missing ID gets a fresh uuid; the stored
// row is returned.
func (s *Store) SaveView(ctx context.Context, v SavedView) (SavedView, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = now()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO saved_views(id, file, name, center_x, center_y, scale, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 file=excluded.file,
	 name=excluded.name,
	 center_x=excluded.center_x,
	 center_y=excluded.center_y,
	 scale=excluded.scale;
	`, v.ID, v.File, v.Name, v.CenterX, v.CenterY, v.Scale, v.CreatedAt)
	if err != nil {
		return SavedView{}, err
	}
	return v, nil
}

// ViewsFor returns the saved views for one graph file, newest first.
func (s *Store) ViewsFor(ctx context.Context, file string) ([]SavedView, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, file, name, center_x, center_y, scale, created_at FROM saved_views
	WHERE file = ?
	ORDER BY created_at DESC, rowid DESC`, file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavedView
	for rows.Next() {
		var v SavedView
		if err := rows.Scan(&v.ID, &v.File, &v.Name, &v.CenterX, &v.CenterY, &v.Scale, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteView removes a saved view by id.
func (s *Store) DeleteView(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_views WHERE id = ?`, id)
	return err
}
