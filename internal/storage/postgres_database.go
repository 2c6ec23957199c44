package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// PostgresDatabase implements the Database interface for PostgreSQL
type PostgresDatabase struct {
	BaseDatabase
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		id TEXT PRIMARY KEY NOT NULL,
		kind TEXT NOT NULL,
		parent_id TEXT REFERENCES blocks(id),
		children TEXT NOT NULL DEFAULT '',
		props TEXT NOT NULL,
		start TIMESTAMPTZ,
		"end" TIMESTAMPTZ,
		done BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_parent_id ON blocks(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_kind ON blocks(kind)`,
}

// Open connects to the PostgreSQL server named by the DSN
func (p *PostgresDatabase) Open(dataSourceName string) error {
	ctx := context.Background()
	p.logger.Info(ctx, "Opening PostgreSQL database", nil)

	db, err := sql.Open("pgx", dataSourceName)
	if err != nil {
		p.logger.Error(ctx, "Failed to open PostgreSQL database", log.Fields{"error": err})
		return model.NewError(model.StoreUnavailable, "open", "", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		p.logger.Error(ctx, "Failed to verify database connection", log.Fields{"error": err})
		return model.NewError(model.StoreUnavailable, "open", "", err)
	}

	p.db = db
	p.logger.Info(ctx, "PostgreSQL database opened successfully", nil)
	return nil
}

// Close closes the connection pool
func (p *PostgresDatabase) Close() error {
	p.logger.Info(context.Background(), "Closing PostgreSQL database", nil)
	if err := p.closeDB(); err != nil {
		p.logger.Error(context.Background(), "Failed to close PostgreSQL database", log.Fields{"error": err})
		return fmt.Errorf("failed to close PostgreSQL database: %w", err)
	}
	return nil
}

func (p *PostgresDatabase) Driver() DBDriver { return PostgreSQL }

func (p *PostgresDatabase) Rebind(query string) string { return rebindDollar(query) }

func (p *PostgresDatabase) InitSchema(ctx context.Context) error {
	return p.execSchema(ctx, postgresSchema)
}

func (p *PostgresDatabase) Classify(op, id string, err error) error {
	return classify(op, id, err, postgresErrorKind)
}

func postgresErrorKind(err error) model.ErrorKind {
	// Connect failures surface as the dial error wrapped by pgconn.
	var opErr *net.OpError
	if errors.As(err, &opErr) || pgconn.Timeout(err) {
		return model.StoreUnavailable
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return model.UnknownError
	}
	switch {
	case strings.HasPrefix(pgErr.Code, "23"):
		return model.ConstraintViolation
	case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
		return model.StoreUnavailable
	default:
		return model.UnknownError
	}
}
