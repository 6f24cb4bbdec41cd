// Package store persists reservations in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Store wraps the SQLite connection. A single write mutex serializes
// mutations: the conflict check in the service reads before it writes,
// and WAL mode alone does not make that sequence atomic.
type Store struct {
	*sql.DB
	path   string
	mu     sync.Mutex
	logger *zerolog.Logger
}

// Open opens the database at path and runs migrations, creating the
// parent directory when missing.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{DB: db, path: path, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		// Reservations. No unique index on the natural key: duplicate
		// tuples are assumed absent, not enforced.
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room TEXT NOT NULL,
			requester TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_reservations_room_date ON reservations(room, date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
	}

	for _, q := range queries {
		if _, err := s.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
