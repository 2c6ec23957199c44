package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"notation/local-app/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		driver func(error) model.ErrorKind
		err    error
		want   model.ErrorKind
	}{
		{"sqlite constraint", sqliteErrorKind, sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, model.ConstraintViolation},
		{"sqlite busy", sqliteErrorKind, sqlite3.Error{Code: sqlite3.ErrBusy}, model.StoreUnavailable},
		{"sqlite not a db", sqliteErrorKind, fmt.Errorf("wrapped: %w", sqlite3.Error{Code: sqlite3.ErrNotADB}), model.StoreUnavailable},
		{"sqlite syntax", sqliteErrorKind, sqlite3.Error{Code: sqlite3.ErrError}, model.UnknownError},
		{"postgres unique", postgresErrorKind, &pgconn.PgError{Code: "23505"}, model.ConstraintViolation},
		{"postgres foreign key", postgresErrorKind, &pgconn.PgError{Code: "23503"}, model.ConstraintViolation},
		{"postgres connection failure", postgresErrorKind, &pgconn.PgError{Code: "08006"}, model.StoreUnavailable},
		{"postgres admin shutdown", postgresErrorKind, &pgconn.PgError{Code: "57P01"}, model.StoreUnavailable},
		{"postgres undefined table", postgresErrorKind, &pgconn.PgError{Code: "42P01"}, model.UnknownError},
		{"postgres connect refused", postgresErrorKind, fmt.Errorf("failed to connect to `host=db`: %w", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), model.StoreUnavailable},
		{"postgres dial timeout", postgresErrorKind, &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}, model.StoreUnavailable},
		{"bad connection", sqliteErrorKind, driver.ErrBadConn, model.StoreUnavailable},
		{"connection done", postgresErrorKind, sql.ErrConnDone, model.StoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", "id", tt.err, tt.driver)
			assert.Equal(t, tt.want, model.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, classify("op", "", nil, sqliteErrorKind))

	err := classify("op", "", context.Canceled, sqliteErrorKind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.UnknownError, model.KindOf(err))

	already := model.NewError(model.NotFound, "inner", "x", nil)
	assert.Same(t, already, classify("outer", "", already, sqliteErrorKind))

	plain := errors.New("boom")
	assert.ErrorIs(t, classify("op", "", plain, postgresErrorKind), plain)
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)", rebindDollar("SELECT a FROM t WHERE x = ? AND y IN (?, ?)"))
	assert.Equal(t, "SELECT 1", rebindDollar("SELECT 1"))
}
