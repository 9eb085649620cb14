package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"flowdesk/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export. Documents keep the JSON key names,
// so a YAML file is the same tree written in YAML syntax.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports and validates a document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Document, error) {
	var tree any
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	data, err := json.Marshal(stringKeys(tree))
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML: %w", err)
	}

	return domain.ParseDocument(data)
}

// Export writes the document as YAML
func (c *YAMLCodec) Export(doc *domain.Document, w io.Writer) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tree); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// stringKeys rewrites mappings with non-string keys, such as unquoted numeric
// node ids, into string-keyed maps that encoding/json accepts.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
