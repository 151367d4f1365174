// Package database handles the connection to the issue store and the
// transactional access the placement engine runs through.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLite selects the embedded SQLite store
	DriverSQLite = "sqlite"

	// DriverPostgres selects a PostgreSQL server through pgx
	DriverPostgres = "postgres"

	defaultBusyTimeout = 5 * time.Second
)

// Config selects and tunes the backing database
type Config struct {
	Driver string `yaml:"driver"`
	// URL is a file path (or ":memory:") for SQLite and a connection URL for PostgreSQL
	URL           string `yaml:"url"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms"`
}

// DefaultConfig returns an SQLite store at ~/.kanrank/kanrank.db
func DefaultConfig() Config {
	return Config{
		Driver:        DriverSQLite,
		BusyTimeoutMs: int(defaultBusyTimeout / time.Millisecond),
	}
}

// InitDB opens the configured database, runs migrations and returns a Store
func InitDB(ctx context.Context, cfg Config) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if d.name == DriverSQLite {
		if dsn == "" {
			dsn, err = defaultSQLitePath()
			if err != nil {
				return nil, err
			}
		}
		busy := cfg.BusyTimeoutMs
		if busy <= 0 {
			busy = int(defaultBusyTimeout / time.Millisecond)
		}
		dsn = sqliteDSN(dsn, busy)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.name == DriverSQLite {
		// SQLite benefits from a single writer connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(20)
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db, d); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// defaultSQLitePath returns ~/.kanrank/kanrank.db (or $KANRANK_HOME/kanrank.db),
// creating the directory if needed
func defaultSQLitePath() (string, error) {
	dir := os.Getenv("KANRANK_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".kanrank")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return filepath.Join(dir, "kanrank.db"), nil
}

// sqliteDSN turns a path into a modernc DSN. Every connection gets foreign
// keys and a busy timeout, and transactions begin IMMEDIATE so the write lock
// is taken before the column is read.
func sqliteDSN(path string, busyTimeoutMs int) string {
	memory := path == ":memory:"
	if memory {
		path = "file::memory:"
	} else if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	dsn := fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_txlock=immediate", path, sep, busyTimeoutMs)
	if !memory {
		// WAL lets readers proceed while a placement holds the write lock
		dsn += "&_pragma=journal_mode(WAL)"
	}
	return dsn
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
