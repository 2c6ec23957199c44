package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notation/local-app/internal/event"
	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
)

// shape reduces a tree to kinds and contents so trees with different ids
// can be compared.
type shape struct {
	Kind     model.Kind
	Content  string
	Done     bool
	Children []shape
}

func shapeOf(t *testing.T, f *fixture, b model.Block) shape {
	t.Helper()
	var s shape
	children := b.BlockChildren()
	switch v := b.(type) {
	case *model.PageBlock:
		s = shape{Kind: model.KindPage, Content: v.Props.Title, Done: v.Done}
		if len(children) == 0 {
			full, err := f.PageGet(context.Background(), v.ID)
			require.NoError(t, err)
			children = full.Children
		}
	case *model.TextBlock:
		s = shape{Kind: model.KindText, Content: v.Props.Text, Done: v.Done}
	case *model.DummyBlock:
		s = shape{Kind: model.KindDummy}
	}
	for _, c := range children {
		s.Children = append(s.Children, shapeOf(t, f, c))
	}
	return s
}

func TestPageExportImport(t *testing.T) {
	for _, format := range []storage.FileFormat{storage.JSON, storage.XML} {
		t.Run(string(format), func(t *testing.T) {
			f := newFixture(t, storage.Recursive)
			ctx := context.Background()

			a := f.page(t, nil, "Trip")
			due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
			_, err := f.BlockAdd(ctx, model.BlockInfo{Kind: model.KindText, ParentID: &a, Props: model.TextProps{Text: "book hotel"}, End: &due, Done: true})
			require.NoError(t, err)
			packing := f.page(t, &a, "Packing")
			socks := f.text(t, &packing, "socks")
			f.text(t, &socks, "wool")
			f.text(t, &a, "call mum")

			filename := filepath.Join(t.TempDir(), "trip."+string(format))
			require.NoError(t, f.PageExport(ctx, a, filename, format))

			imported, err := f.PageImport(ctx, filename, format, nil)
			require.NoError(t, err)
			assert.NotEqual(t, a, imported)

			original, err := f.PageGet(ctx, a)
			require.NoError(t, err)
			copied, err := f.PageGet(ctx, imported)
			require.NoError(t, err)
			assert.Equal(t, shapeOf(t, f, original), shapeOf(t, f, copied))
			assert.True(t, due.Equal(*copied.Children[0].(*model.TextBlock).End))

			forest, err := f.PageList(ctx)
			require.NoError(t, err)
			assert.Len(t, forest, 2)
		})
	}
}

func TestPageImport_UnderParent(t *testing.T) {
	f := newFixture(t, storage.Iterative)
	ctx := context.Background()
	src := f.page(t, nil, "Source")
	f.text(t, &src, "body")
	dst := f.page(t, nil, "Destination")

	filename := filepath.Join(t.TempDir(), "source.json")
	require.NoError(t, f.PageExport(ctx, src, filename, storage.JSON))

	got := make(chan event.BlockData, 1)
	f.events.Subscribe(event.PageImported, func(e event.Event) { got <- e.Data.(event.BlockData) })

	imported, err := f.PageImport(ctx, filename, storage.JSON, &dst)
	require.NoError(t, err)
	f.events.Wait()
	require.Len(t, got, 1)
	assert.Equal(t, 2, (<-got).Count)

	page, err := f.PageGet(ctx, dst)
	require.NoError(t, err)
	require.Equal(t, []model.ID{imported}, childIDs(page))

	nested, err := f.PageGet(ctx, imported)
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, dst, *nested.ParentID)
	assert.Len(t, nested.Children, 1)
}

func TestPageImport_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"text root", `{"id":"x","kind":"text","text":"hi"}`, model.ErrRootNotAPage},
		{"unknown child kind", `{"id":"x","kind":"page","title":"t","children":[{"id":"y","kind":"board"}]}`, model.ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, storage.Recursive)
			filename := filepath.Join(t.TempDir(), "in.json")
			require.NoError(t, os.WriteFile(filename, []byte(tt.content), 0644))

			_, err := f.PageImport(context.Background(), filename, storage.JSON, nil)
			assert.ErrorIs(t, err, tt.want)

			forest, err := f.PageList(context.Background())
			require.NoError(t, err)
			assert.Empty(t, forest)
		})
	}
}

func TestPageExport_NotFound(t *testing.T) {
	f := newFixture(t, storage.Recursive)
	id, err := model.NewID()
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "missing.json")
	err = f.PageExport(context.Background(), id, filename, storage.JSON)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoFileExists(t, filename)
}
