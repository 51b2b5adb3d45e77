package probe

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is a persistent clip-duration cache backed by a local sqlite
// database. Entries are keyed by path and invalidated when the file's size
// or mtime changes, so a re-exported clip is re-probed.
type Cache struct {
	conn *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS durations (
	path     TEXT PRIMARY KEY,
	size     INTEGER NOT NULL,
	mtime    INTEGER NOT NULL,
	duration REAL NOT NULL
);`

// OpenCache opens (creating if necessary) the duration cache at dbPath.
func OpenCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open probe cache: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open probe cache: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("probe cache %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(cacheSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create probe cache schema: %w", err)
	}
	return &Cache{conn: conn}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Get returns the cached duration for path when the file still matches the
// recorded size and mtime. Misses and stat failures return (0, false).
func (c *Cache) Get(path string) (float64, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, false
	}

	var size, mtime int64
	var duration float64
	err = c.conn.QueryRow(
		"SELECT size, mtime, duration FROM durations WHERE path = ?", path,
	).Scan(&size, &mtime, &duration)
	if err != nil {
		return 0, false
	}
	if size != fi.Size() || mtime != fi.ModTime().Unix() {
		return 0, false
	}
	return duration, true
}

// Put records the duration for path keyed by its current size and mtime.
// Cache write failures are ignored; the cache is an optimization, not a
// source of truth.
func (c *Cache) Put(path string, duration float64) {
	fi, err := os.Stat(path)
	if err != nil {
		return
	}
	_, _ = c.conn.Exec(
		`INSERT INTO durations (path, size, mtime, duration) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET size=excluded.size, mtime=excluded.mtime, duration=excluded.duration`,
		path, fi.Size(), fi.ModTime().Unix(), duration,
	)
}
