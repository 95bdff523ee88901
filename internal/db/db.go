package db

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store wraps the database handle with the degradation semantics the offline
// layer relies on: when storage cannot be opened the store still constructs,
// reads come back empty, and writes are silent no-ops. Offline features are
// simply disabled instead of failing every caller.
type Store struct {
	mu     sync.Mutex
	db     *sqlx.DB
	driver string
}

// Open connects and migrates. It never fails: any irrecoverable open error is
// logged and yields an unavailable store. A schema that is ahead of this binary
// is used as-is (migration errors are non-fatal once the connection is up).
func Open(driver, connection string) *Store {
	// SQLite: create data directory if needed
	if driver == "sqlite" {
		dir := filepath.Dir(strings.SplitN(connection, "?", 2)[0])
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			slog.Warn("storage unavailable, offline features disabled", "error", err)
			return &Store{driver: driver}
		}
	}

	database, err := sqlx.Connect(driver, connection)
	if err != nil {
		slog.Warn("storage unavailable, offline features disabled", "driver", driver, "error", err)
		return &Store{driver: driver}
	}

	// Connection pool configuration (good defaults for all drivers)
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	err = RunMigrations(database.DB, driver)
	if err != nil {
		// The existing schema may already carry everything we need (or more,
		// written by a newer binary). Missing tables are retried lazily.
		slog.Warn("migrations failed, continuing with existing schema", "error", err)
	}

	slog.Info("database connected", "driver", driver)
	return &Store{db: database, driver: driver}
}

// Available reports whether persistent storage is usable.
func (s *Store) Available() bool {
	return s.db != nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get reads a single record. An unavailable store reads as empty
// (sql.ErrNoRows), not as an error condition.
func (s *Store) Get(dest any, query string, args ...any) error {
	if s.db == nil {
		return sql.ErrNoRows
	}
	return s.withLazyMigrate(func(db *sqlx.DB) error {
		return db.Get(dest, query, args...)
	})
}

// Select reads a set of records; empty on an unavailable store.
func (s *Store) Select(dest any, query string, args ...any) error {
	if s.db == nil {
		return nil
	}
	return s.withLazyMigrate(func(db *sqlx.DB) error {
		return db.Select(dest, query, args...)
	})
}

// Exec runs a write; a no-op on an unavailable store.
func (s *Store) Exec(query string, args ...any) error {
	if s.db == nil {
		return nil
	}
	return s.withLazyMigrate(func(db *sqlx.DB) error {
		_, err := db.Exec(query, args...)
		return err
	})
}

// Count runs a COUNT(*) style query; zero on an unavailable store.
func (s *Store) Count(query string, args ...any) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	var count int
	err := s.withLazyMigrate(func(db *sqlx.DB) error {
		return db.QueryRow(query, args...).Scan(&count)
	})
	return count, err
}

// withLazyMigrate retries once after re-running migrations when a query hits a
// table that does not exist yet. Collections added by later schema versions
// must behave as empty, and writes to them must trigger re-initialization
// rather than fail.
func (s *Store) withLazyMigrate(fn func(*sqlx.DB) error) error {
	err := fn(s.db)
	if err == nil || !missingTable(err) {
		return err
	}

	s.mu.Lock()
	mErr := RunMigrations(s.db.DB, s.driver)
	s.mu.Unlock()
	if mErr != nil {
		return err
	}
	return fn(s.db)
}

func missingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") || // sqlite
		strings.Contains(msg, "does not exist") // postgres
}
