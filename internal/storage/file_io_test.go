package storage

import (
	"encoding/xml"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearXMLNames(n *ExportNode) {
	n.XMLName = xml.Name{}
	for i := range n.Children {
		clearXMLNames(&n.Children[i])
	}
}

func TestFileExportImport(t *testing.T) {
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	root := &ExportNode{
		ID:    "a",
		Kind:  "page",
		Title: "Groceries",
		Children: []ExportNode{
			{ID: "b", Kind: "text", Text: "milk", End: &due, Done: true},
			{ID: "c", Kind: "page", Title: "Recipes", Children: []ExportNode{
				{ID: "d", Kind: "text", Text: "bread"},
			}},
		},
	}

	for _, format := range []FileFormat{JSON, XML} {
		t.Run(string(format), func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "out", "page."+string(format))
			require.NoError(t, FileExport(root, filename, format))

			got, err := FileImport(filename, format)
			require.NoError(t, err)
			clearXMLNames(got)
			assert.Equal(t, root, got)
		})
	}
}

func TestFileFormat(t *testing.T) {
	f, err := ParseFileFormat("")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = ParseFileFormat("xml")
	require.NoError(t, err)
	assert.Equal(t, XML, f)

	_, err = ParseFileFormat("yaml")
	assert.Error(t, err)

	assert.Error(t, FileExport(&ExportNode{}, filepath.Join(t.TempDir(), "x"), "csv"))
	_, err = FileImport(filepath.Join(t.TempDir(), "missing.json"), JSON)
	assert.Error(t, err)
}
