// Package storage persists expenses for the reference server.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/config"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// dialect captures the SQL differences between the supported drivers.
type dialect struct {
	name string
	// idColumn is the DDL of the auto-assigned primary key.
	idColumn string
	// amountColumn is the DDL of the amount column.
	amountColumn string
	// returning is true when INSERT ... RETURNING must be used instead of
	// LastInsertId.
	returning bool
	// numbered is true for $1-style placeholders.
	numbered bool
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		name:         config.DriverSQLite,
		idColumn:     "expense_id INTEGER PRIMARY KEY AUTOINCREMENT",
		amountColumn: "amount TEXT NOT NULL",
	},
	config.DriverPostgres: {
		name:         config.DriverPostgres,
		idColumn:     "expense_id SERIAL PRIMARY KEY",
		amountColumn: "amount NUMERIC(12, 2) NOT NULL CHECK (amount >= 0)",
		returning:    true,
		numbered:     true,
	},
}

// rebind converts ? placeholders to the dialect's style.
func (d dialect) rebind(query string) string {
	if !d.numbered {
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

// Store is the SQL-backed expense collection.
type Store struct {
	db      *sql.DB
	logger  *slog.Logger
	dialect dialect
}

// Open connects to the database. For SQLite the DSN is a file path (or
// ":memory:") and the parent directory is created if needed.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = slog.Default()
	}

	source := dsn
	if driver == config.DriverSQLite {
		if dsn != ":memory:" {
			// Ensure directory exists
			if err := os.MkdirAll(filepath.Dir(dsn), 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			source = dsn + "?_journal_mode=WAL&_busy_timeout=5000"
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == config.DriverSQLite {
		// SQLite doesn't benefit from multiple connections, and an
		// in-memory database only exists on its one connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("Opened expense database", "driver", driver)
	return &Store{db: db, dialect: d, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.db.PingContext(ctx)
}
