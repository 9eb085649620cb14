package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RenderKind tells the editor how a node body is rendered
type RenderKind int

const (
	// RenderMarkup renders the node's html string as-is
	RenderMarkup RenderKind = iota
	// RenderComponent renders a registered component in place of html
	RenderComponent
)

// String returns the render kind name
func (k RenderKind) String() string {
	if k == RenderComponent {
		return "component"
	}
	return "markup"
}

// MarshalJSON encodes the kind as the editor's typenode flag
func (k RenderKind) MarshalJSON() ([]byte, error) {
	if k == RenderComponent {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// UnmarshalJSON accepts false, true, or a component framework name such as "vue".
// Every component form decodes to RenderComponent and encodes back as true.
func (k *RenderKind) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "false", "null", `""`:
		*k = RenderMarkup
		return nil
	case "true":
		*k = RenderComponent
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: typenode must be a bool or string", ErrMalformedDocument)
	}
	*k = RenderComponent
	return nil
}

// Node is one record of a document module
type Node struct {
	ID      NodeID
	Name    string
	Data    map[string]any
	Class   string
	HTML    string
	Kind    RenderKind
	Inputs  map[string]Port
	Outputs map[string]Port
	PosX    float64
	PosY    float64
}

// nodeWire is the exchange shape of a node. Pointer fields detect missing keys.
type nodeWire struct {
	ID      *NodeID          `json:"id"`
	Name    *string          `json:"name"`
	Data    map[string]any   `json:"data"`
	Class   string           `json:"class"`
	HTML    string           `json:"html"`
	Kind    RenderKind       `json:"typenode"`
	Inputs  *map[string]Port `json:"inputs"`
	Outputs *map[string]Port `json:"outputs"`
	PosX    *float64         `json:"pos_x"`
	PosY    *float64         `json:"pos_y"`
}

// MarshalJSON encodes the node in the editor's export shape
func (n Node) MarshalJSON() ([]byte, error) {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	inputs := n.Inputs
	if inputs == nil {
		inputs = map[string]Port{}
	}
	outputs := n.Outputs
	if outputs == nil {
		outputs = map[string]Port{}
	}

	return json.Marshal(nodeWire{
		ID:      &n.ID,
		Name:    &n.Name,
		Data:    data,
		Class:   n.Class,
		HTML:    n.HTML,
		Kind:    n.Kind,
		Inputs:  &inputs,
		Outputs: &outputs,
		PosX:    &n.PosX,
		PosY:    &n.PosY,
	})
}

// UnmarshalJSON decodes a node and rejects records missing required keys
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.Name == nil {
		missing = append(missing, "name")
	}
	if w.Inputs == nil {
		missing = append(missing, "inputs")
	}
	if w.Outputs == nil {
		missing = append(missing, "outputs")
	}
	if w.PosX == nil {
		missing = append(missing, "pos_x")
	}
	if w.PosY == nil {
		missing = append(missing, "pos_y")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: node missing %s", ErrMalformedDocument, strings.Join(missing, ", "))
	}

	*n = Node{
		ID:      *w.ID,
		Name:    *w.Name,
		Data:    w.Data,
		Class:   w.Class,
		HTML:    w.HTML,
		Kind:    w.Kind,
		Inputs:  *w.Inputs,
		Outputs: *w.Outputs,
		PosX:    *w.PosX,
		PosY:    *w.PosY,
	}
	return nil
}

// DataString returns a string attribute from the node's custom data
func (n *Node) DataString(key string) string {
	if n.Data == nil {
		return ""
	}
	if s, ok := n.Data[key].(string); ok {
		return s
	}
	return ""
}

// TemplateID returns the template the node was created from, if recorded
func (n *Node) TemplateID() TemplateID {
	return TemplateID(n.DataString("templateId"))
}
