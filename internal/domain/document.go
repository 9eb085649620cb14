package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultModule is the module every document must contain
const DefaultModule = "Home"

// Module is a named namespace of nodes, keyed by node id
type Module struct {
	Data map[string]*Node `json:"data"`
}

// NewModule creates an empty module
func NewModule() *Module {
	return &Module{Data: make(map[string]*Node)}
}

// Document is the complete editor state: module name to module
type Document struct {
	Modules map[string]*Module
}

type documentWire struct {
	Drawflow map[string]*Module `json:"drawflow"`
}

// NewDocument creates a document holding an empty Home module
func NewDocument() *Document {
	return &Document{
		Modules: map[string]*Module{DefaultModule: NewModule()},
	}
}

// MarshalJSON encodes the document under the "drawflow" root key
func (d Document) MarshalJSON() ([]byte, error) {
	modules := make(map[string]*Module, len(d.Modules))
	for name, mod := range d.Modules {
		if mod == nil || mod.Data == nil {
			modules[name] = NewModule()
			continue
		}
		modules[name] = mod
	}
	return json.Marshal(documentWire{Drawflow: modules})
}

// UnmarshalJSON decodes a document and requires the "drawflow" root key
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Drawflow == nil {
		return fmt.Errorf("%w: missing drawflow root", ErrMalformedDocument)
	}
	d.Modules = w.Drawflow
	return nil
}

// ParseDocument decodes and validates a document
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if errors.Is(err, ErrMalformedDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Module returns the named module, or nil
func (d *Document) Module(name string) *Module {
	if d == nil || d.Modules == nil {
		return nil
	}
	return d.Modules[name]
}

// ModuleNames returns the module names in sorted order
func (d *Document) ModuleNames() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.Modules))
}

// NodeCount returns the number of nodes across all modules
func (d *Document) NodeCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, mod := range d.Modules {
		if mod != nil {
			count += len(mod.Data)
		}
	}
	return count
}

// IsEmpty reports whether the document holds no nodes
func (d *Document) IsEmpty() bool {
	return d.NodeCount() == 0
}

// Nodes returns the nodes of a module ordered by key
func (d *Document) Nodes(module string) []*Node {
	mod := d.Module(module)
	if mod == nil {
		return nil
	}
	nodes := make([]*Node, 0, len(mod.Data))
	for _, key := range slices.Sorted(maps.Keys(mod.Data)) {
		nodes = append(nodes, mod.Data[key])
	}
	return nodes
}

// Clone returns a deep copy of the document
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Equal reports structural equality: same modules, nodes, data, connections
// and positions. Nil and empty collections compare equal.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	a, err := json.Marshal(d)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Validate checks the document invariants: a Home module exists, node keys
// match node ids, ids are unique across the document, and every connection
// points at an existing node and port.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrMalformedDocument)
	}

	var problems []error
	if d.Module(DefaultModule) == nil {
		problems = append(problems, fmt.Errorf("missing %q module", DefaultModule))
	}

	index := make(map[string]*Node)
	for _, modName := range d.ModuleNames() {
		mod := d.Modules[modName]
		if mod == nil {
			problems = append(problems, fmt.Errorf("module %q is null", modName))
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(mod.Data)) {
			node := mod.Data[key]
			if node == nil {
				problems = append(problems, fmt.Errorf("node %q in module %q is null", key, modName))
				continue
			}
			if node.ID.String() != key {
				problems = append(problems, fmt.Errorf("node key %q does not match id %q", key, node.ID))
			}
			if _, dup := index[key]; dup {
				problems = append(problems, fmt.Errorf("node id %q is not unique", key))
				continue
			}
			index[key] = node
		}
	}

	for _, key := range slices.Sorted(maps.Keys(index)) {
		node := index[key]
		for _, portName := range slices.Sorted(maps.Keys(node.Outputs)) {
			for _, conn := range node.Outputs[portName].Connections {
				target, ok := index[conn.Node]
				if !ok {
					problems = append(problems, fmt.Errorf("node %s %s connects to missing node %q", key, portName, conn.Node))
					continue
				}
				if _, ok := target.Inputs[conn.Output]; !ok {
					problems = append(problems, fmt.Errorf("node %s %s connects to missing port %s.%s", key, portName, conn.Node, conn.Output))
				}
			}
		}
		for _, portName := range slices.Sorted(maps.Keys(node.Inputs)) {
			for _, conn := range node.Inputs[portName].Connections {
				source, ok := index[conn.Node]
				if !ok {
					problems = append(problems, fmt.Errorf("node %s %s connects from missing node %q", key, portName, conn.Node))
					continue
				}
				if _, ok := source.Outputs[conn.Input]; !ok {
					problems = append(problems, fmt.Errorf("node %s %s connects from missing port %s.%s", key, portName, conn.Node, conn.Input))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, errors.Join(problems...))
	}
	return nil
}
