package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
)

// Document is a complete notes corpus held in memory.
type Document struct {
	Name string // file path or caller-chosen label
	Text string
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("document %q is empty: %w", d.Name, internalerr.ErrInvalidInput)
	}
	return nil
}

// LoadDocument reads a notes corpus from disk. HTML exports (.html, .htm) are
// reduced to their text first. A file that cannot be found or read fails
// with ErrSourceNotFound; nothing is processed in that case.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("notes file %s: %w", path, internalerr.ErrSourceNotFound)
		}
		return Document{}, fmt.Errorf("read notes file %s: %w: %v", path, internalerr.ErrSourceNotFound, err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = HTMLToText(text)
		if err != nil {
			return Document{}, fmt.Errorf("parse html %s: %w", path, err)
		}
	}

	return Document{Name: path, Text: text}, nil
}
