// Package cache persists the last-known habit set to a local SQLite file so
// the UI can render immediately on startup. It is display-only state: the
// cache is overwritten after each successful bulk fetch and is never synced
// back to the server.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tally-app/tally-cli/internal/models"
)

type Cache struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at the given path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	c := &Cache{db: db, path: path}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			frequency TEXT NOT NULL,
			time_of_day TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			current_streak INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0,
			archived INTEGER NOT NULL DEFAULT 0
		)`)
	return err
}

// Load returns all cached habits.
func (c *Cache) Load() ([]models.Habit, error) {
	rows, err := c.db.Query(`
		SELECT id, name, type, frequency, time_of_day, category, color,
			start_date, current_streak, sort_order, archived
		FROM habits ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var archived int
		err := rows.Scan(&h.ID, &h.Name, &h.Type, &h.Frequency, &h.TimeOfDay,
			&h.Category, &h.Color, &h.StartDate, &h.CurrentStreak, &h.SortOrder, &archived)
		if err != nil {
			return nil, err
		}
		h.Archived = archived != 0
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// Replace overwrites the cached set with the given habits atomically.
func (c *Cache) Replace(habits []models.Habit) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return err
	}
	for _, h := range habits {
		archived := 0
		if h.Archived {
			archived = 1
		}
		_, err := tx.Exec(`
			INSERT INTO habits (id, name, type, frequency, time_of_day, category,
				color, start_date, current_streak, sort_order, archived)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, string(h.Type), string(h.Frequency), string(h.TimeOfDay),
			h.Category, h.Color, h.StartDate, h.CurrentStreak, h.SortOrder, archived)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Path returns the filesystem location of the cache database.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) Close() error {
	return c.db.Close()
}
