// Package storage provides functionality for persisting and retrieving Notation blocks.
// This file handles the general SQL database interfaces and schemas.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// DBDriver represents the type of database driver
type DBDriver string

const (
	SQLite     DBDriver = "sqlite"
	PostgreSQL DBDriver = "postgres"
)

// Database interface defines common database operations. Implementations are
// safe for concurrent use; every transaction is scoped to the caller.
type Database interface {
	Open(dataSourceName string) error
	Close() error
	Driver() DBDriver
	SetMaxOpenConns(n int)
	BeginTx(ctx context.Context) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	// Rebind rewrites '?' placeholders into the driver's native form.
	Rebind(query string) string
	// Classify maps a driver error onto the model error taxonomy.
	Classify(op, id string, err error) error
	InitSchema(ctx context.Context) error
}

// NewDatabase creates a new Database instance based on the specified driver
func NewDatabase(driver DBDriver, logger *log.Logger) (Database, error) {
	switch driver {
	case SQLite:
		return &SQLiteDatabase{BaseDatabase: BaseDatabase{logger: logger}}, nil
	case PostgreSQL:
		return &PostgresDatabase{BaseDatabase: BaseDatabase{logger: logger}}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

var errDatabaseClosed = errors.New("database is closed")

// BaseDatabase provides a base implementation of some Database methods
type BaseDatabase struct {
	db     *sql.DB
	logger *log.Logger
	closed atomic.Bool
}

// closeDB marks the database closed before closing the pool, so requests
// racing the close report StoreUnavailable.
func (b *BaseDatabase) closeDB() error {
	b.closed.Store(true)
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// unavailable reports err as StoreUnavailable when the database has been
// closed, and returns it unchanged otherwise.
func (b *BaseDatabase) unavailable(op string, err error) error {
	if err != nil && b.closed.Load() {
		return model.NewError(model.StoreUnavailable, op, "", err)
	}
	return err
}

// SetMaxOpenConns bounds the connection pool. Zero leaves it unbounded.
func (b *BaseDatabase) SetMaxOpenConns(n int) {
	if b.db != nil && n > 0 {
		b.db.SetMaxOpenConns(n)
	}
}

// BeginTx starts a transaction owned by the caller, who must end it.
// Failing to acquire a connection is StoreUnavailable; context errors
// are returned as is.
func (b *BaseDatabase) BeginTx(ctx context.Context) (*sql.Tx, error) {
	if b.closed.Load() || b.db == nil {
		return nil, model.NewError(model.StoreUnavailable, "begin transaction", "", errDatabaseClosed)
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		b.logger.Error(ctx, "Failed to begin transaction", log.Fields{"error": err})
		return nil, model.NewError(model.StoreUnavailable, "begin transaction", "", err)
	}
	return tx, nil
}

// ExecContext executes a query without returning any rows
func (b *BaseDatabase) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if b.closed.Load() || b.db == nil {
		return nil, model.NewError(model.StoreUnavailable, "exec", "", errDatabaseClosed)
	}
	b.logger.Debug(ctx, "Executing query", log.Fields{"query": query, "args": args})
	res, err := b.db.ExecContext(ctx, query, args...)
	return res, b.unavailable("exec", err)
}

// QueryContext executes a query that returns rows
func (b *BaseDatabase) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if b.closed.Load() || b.db == nil {
		return nil, model.NewError(model.StoreUnavailable, "query", "", errDatabaseClosed)
	}
	b.logger.Debug(ctx, "Querying", log.Fields{"query": query, "args": args})
	rows, err := b.db.QueryContext(ctx, query, args...)
	return rows, b.unavailable("query", err)
}

// execSchema runs each schema statement in order.
func (b *BaseDatabase) execSchema(ctx context.Context, statements []string) error {
	b.logger.Info(ctx, "Initializing database schema", nil)
	for _, stmt := range statements {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			b.logger.Error(ctx, "Failed to create tables", log.Fields{"error": err})
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	b.logger.Info(ctx, "Database schema initialized successfully", nil)
	return nil
}

// rebindDollar numbers '?' placeholders as $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// validateDBDriver checks if the provided driver is supported
func validateDBDriver(driver string) (DBDriver, error) {
	switch DBDriver(driver) {
	case SQLite:
		return SQLite, nil
	case PostgreSQL:
		return PostgreSQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
