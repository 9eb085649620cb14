package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"flowdesk/internal/domain"
)

// JSONCodec handles the editor's native JSON exchange format
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports and validates a document from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}
	return domain.ParseDocument(data)
}

// Export writes the document as JSON indented by two spaces
func (c *JSONCodec) Export(doc *domain.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// Pretty renders the document as display text, indented by two spaces
func Pretty(doc *domain.Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}
