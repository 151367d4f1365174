package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect captures the SQL differences between the supported drivers.
// Queries are written with '?' placeholders and rebound per dialect.
type dialect struct {
	name       string
	driverName string
	txOptions  *sql.TxOptions

	// lockSuffix is appended to the SELECTs that must hold row locks
	// until commit. SQLite needs none: BEGIN IMMEDIATE already holds the
	// database write lock.
	lockSuffix string

	// rankOrder sorts ranks bytewise regardless of the database collation
	rankOrder string

	schema     []string
	isConflict func(error) bool
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite, "sqlite3":
		return sqliteDialect, nil
	case DriverPostgres, "postgresql", "pgx":
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

var sqliteDialect = dialect{
	name:       DriverSQLite,
	driverName: "sqlite",
	rankOrder:  "rank",
	schema:     sqliteSchema,
	isConflict: isSQLiteConflict,
}

var postgresDialect = dialect{
	name:       DriverPostgres,
	driverName: "pgx",
	txOptions:  &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	lockSuffix: " FOR UPDATE",
	rankOrder:  `rank COLLATE "C"`,
	schema:     postgresSchema,
	isConflict: isPostgresConflict,
}

// rebind rewrites '?' placeholders into the dialect's positional form
func (d dialect) rebind(query string) string {
	if d.name != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// classify wraps err with ErrConflict when the driver reports a retryable
// concurrency failure
func (d dialect) classify(err error) error {
	if err == nil || errors.Is(err, ErrConflict) {
		return err
	}
	if d.isConflict(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isSQLiteConflict(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Without extended codes only the message tells UNIQUE apart from
		// foreign key and NOT NULL failures
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func isPostgresConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.SQLState() {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03", // lock_not_available
		"23505": // unique_violation
		return true
	}
	return false
}
