package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// QueryStrategy selects how subtrees are read from the database.
type QueryStrategy string

const (
	// Recursive reads a subtree with one WITH RECURSIVE query.
	Recursive QueryStrategy = "recursive"
	// Iterative reads a subtree one level at a time with a visited set.
	Iterative QueryStrategy = "iterative"
)

// Storage represents the main storage implementation.
type Storage struct {
	db     Database
	logger *log.Logger
	BlockStore
}

// NewStorage creates a new Storage instance and initializes the database.
func NewStorage(config *model.Config, logger *log.Logger) (*Storage, error) {
	dbDriver, err := validateDBDriver(config.DatabaseType)
	if err != nil {
		return nil, fmt.Errorf("invalid database driver '%s': %w", config.DatabaseType, err)
	}

	strategy, err := ParseQueryStrategy(config.QueryStrategy)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(dbDriver, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database instance: %w", err)
	}

	dataSourceName := config.DatabaseDSN
	if dbDriver == SQLite {
		dataSourceName = filepath.Join(config.DatabaseDir, config.DatabaseFile)
	}

	if err := db.Open(dataSourceName); err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	storage := &Storage{
		db:     db,
		logger: logger,
	}

	if err := storage.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	storage.BlockStore = NewBlockStorage(db, strategy, logger)
	return storage, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// initSchema initializes the database schema.
func (s *Storage) initSchema(ctx context.Context) error {
	if err := s.db.InitSchema(ctx); err != nil {
		return s.db.Classify("init schema", "", fmt.Errorf("failed to initialize schema: %w", err))
	}
	return nil
}

// GetDatabase returns the database instance
func (s *Storage) GetDatabase() Database {
	return s.db
}

// ParseQueryStrategy maps a configured strategy name to a QueryStrategy.
// An empty name selects Recursive.
func ParseQueryStrategy(s string) (QueryStrategy, error) {
	switch QueryStrategy(s) {
	case Recursive, "":
		return Recursive, nil
	case Iterative:
		return Iterative, nil
	default:
		return "", fmt.Errorf("unsupported query strategy: %s", s)
	}
}
