package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// SQLiteDatabase implements the Database interface for SQLite
type SQLiteDatabase struct {
	BaseDatabase
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		id TEXT PRIMARY KEY NOT NULL,
		kind TEXT NOT NULL,
		parent_id TEXT REFERENCES blocks(id),
		children TEXT NOT NULL DEFAULT '',
		props TEXT NOT NULL,
		start DATETIME,
		"end" DATETIME,
		done BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_parent_id ON blocks(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_kind ON blocks(kind)`,
}

// Open opens a connection to the SQLite database
func (s *SQLiteDatabase) Open(dataSourceName string) error {
	ctx := context.Background()
	s.logger.Info(ctx, "Opening SQLite database", log.Fields{"dbPath": filepath.Base(dataSourceName)})

	// Ensure the directory for the database file exists
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		s.logger.Error(ctx, "Failed to create database directory", log.Fields{"error": err, "directory": dbDir})
		return model.NewError(model.StoreUnavailable, "open", "", fmt.Errorf("failed to create database directory '%s': %w", dbDir, err))
	}

	// Foreign keys must be on for parent_id integrity
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		s.logger.Error(ctx, "Failed to open SQLite database", log.Fields{"error": err})
		return model.NewError(model.StoreUnavailable, "open", "", err)
	}

	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		s.logger.Error(ctx, "Failed to set SQLite synchronous pragma", log.Fields{"error": err})
		return model.NewError(model.StoreUnavailable, "open", "", fmt.Errorf("failed to set SQLite synchronous pragma: %w", err))
	}

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		s.logger.Error(ctx, "Failed to verify database connection", log.Fields{"error": err})
		return model.NewError(model.StoreUnavailable, "open", "", err)
	}

	s.db = db
	s.logger.Info(ctx, "SQLite database opened successfully", nil)
	return nil
}

// Close closes the connection to the SQLite database
func (s *SQLiteDatabase) Close() error {
	s.logger.Info(context.Background(), "Closing SQLite database", nil)
	if err := s.closeDB(); err != nil {
		s.logger.Error(context.Background(), "Failed to close SQLite database", log.Fields{"error": err})
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Driver() DBDriver { return SQLite }

func (s *SQLiteDatabase) Rebind(query string) string { return query }

func (s *SQLiteDatabase) InitSchema(ctx context.Context) error {
	return s.execSchema(ctx, sqliteSchema)
}

func (s *SQLiteDatabase) Classify(op, id string, err error) error {
	return classify(op, id, err, sqliteErrorKind)
}

func sqliteErrorKind(err error) model.ErrorKind {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return model.UnknownError
	}
	switch se.Code {
	case sqlite3.ErrConstraint:
		return model.ConstraintViolation
	case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr,
		sqlite3.ErrNotADB, sqlite3.ErrFull, sqlite3.ErrReadonly:
		return model.StoreUnavailable
	default:
		return model.UnknownError
	}
}
