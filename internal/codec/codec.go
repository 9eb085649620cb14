package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flowdesk/internal/domain"
)

// Importer interface for importing documents from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Document, error)
	Format() string
}

// Exporter interface for exporting documents to various formats
type Exporter interface {
	Export(doc *domain.Document, w io.Writer) error
	Format() string
}

// ImporterFor returns the importer for a format name
func ImporterFor(format string) (Importer, error) {
	switch format {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

// ExporterFor returns the exporter for a format name
func ExporterFor(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "dot":
		return NewDOTCodec(), nil
	case "svg":
		return NewSVGCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// FormatOf returns the format name implied by a file extension
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ParseFile reads a document from path, choosing the importer by extension
func ParseFile(path string) (*domain.Document, error) {
	imp, err := ImporterFor(FormatOf(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := imp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
