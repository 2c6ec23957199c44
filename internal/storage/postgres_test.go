package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
)

// Set NOTATION_TEST_POSTGRES_DSN to run these against a live server.
func newPostgresStorage(t *testing.T, strategy QueryStrategy) *Storage {
	t.Helper()
	dsn := os.Getenv("NOTATION_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NOTATION_TEST_POSTGRES_DSN not set")
	}
	s, err := NewStorage(&model.Config{
		DatabaseType:  string(PostgreSQL),
		DatabaseDSN:   dsn,
		MaxOpenConns:  4,
		QueryStrategy: string(strategy),
	}, log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgres_Subtree(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s := newPostgresStorage(t, strategy)
			a := addPage(t, s, nil, "A")
			b := addText(t, s, &a, "B")
			c := addPage(t, s, &a, "C")
			addText(t, s, &c, "D")

			records, err := s.BlockSubtree(context.Background(), a)
			require.NoError(t, err)
			assert.Equal(t, []model.ID{a, b, c}, recordIDs(records))
		})
	}
}

func TestPostgres_Constraint(t *testing.T) {
	s := newPostgresStorage(t, Recursive)
	missing, err := model.NewID()
	require.NoError(t, err)

	_, err = s.BlockAdd(context.Background(), model.BlockInfo{Kind: model.KindText, ParentID: &missing, Props: model.TextProps{Text: "x"}})
	assert.ErrorIs(t, err, model.ErrConstraintViolation)
}
