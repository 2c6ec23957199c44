package storage

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileFormat is an export file encoding.
type FileFormat string

const (
	JSON FileFormat = "json"
	XML  FileFormat = "xml"
)

// ParseFileFormat accepts "json" or "xml". An empty string selects JSON.
func ParseFileFormat(s string) (FileFormat, error) {
	switch FileFormat(s) {
	case JSON, "":
		return JSON, nil
	case XML:
		return XML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ExportNode is the file form of one block and its descendants.
type ExportNode struct {
	XMLName  xml.Name     `json:"-" xml:"block"`
	ID       string       `json:"id" xml:"id,attr"`
	Kind     string       `json:"kind" xml:"kind,attr"`
	Title    string       `json:"title,omitempty" xml:"title,omitempty"`
	Text     string       `json:"text,omitempty" xml:"text,omitempty"`
	Start    *time.Time   `json:"start,omitempty" xml:"start,omitempty"`
	End      *time.Time   `json:"end,omitempty" xml:"end,omitempty"`
	Done     bool         `json:"done,omitempty" xml:"done,omitempty"`
	Children []ExportNode `json:"children,omitempty" xml:"children>block,omitempty"`
}

// FileExport writes a page tree to a file in the specified format.
func FileExport(root *ExportNode, filename string, format FileFormat) error {
	var data []byte
	var err error
	switch format {
	case JSON:
		data, err = json.MarshalIndent(root, "", "  ")
	case XML:
		data, err = xml.MarshalIndent(root, "", "  ")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileImport reads a page tree from a file in the specified format.
func FileImport(filename string, format FileFormat) (*ExportNode, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var root ExportNode
	switch format {
	case JSON:
		err = json.Unmarshal(data, &root)
	case XML:
		err = xml.Unmarshal(data, &root)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return &root, nil
}
