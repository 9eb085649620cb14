package domain

import (
	"maps"
	"slices"
)

// TemplateID names a node preset known to the editor
type TemplateID string

const (
	TemplateBasicStart           TemplateID = "basic_start"
	TemplateBasicIntermediate    TemplateID = "basic_intermediate"
	TemplateBasicEnd             TemplateID = "basic_end"
	TemplateDetailedIntermediate TemplateID = "detailed_intermediate"
)

// DefaultTemplate is preselected in the node builder
const DefaultTemplate = TemplateBasicIntermediate

// Node classes derived from port arity
const (
	NodeClassBase         = "drawflow-node"
	NodeClassStart        = "start-node"
	NodeClassIntermediate = "intermediate-node"
	NodeClassEnd          = "end-node"
)

// Template describes how the editor instantiates and styles a node
type Template struct {
	ID             TemplateID        `json:"id"`
	DisplayName    string            `json:"displayName"`
	Icon           string            `json:"icon"`
	Inputs         int               `json:"inputs"`
	Outputs        int               `json:"outputs"`
	Defaults       map[string]string `json:"defaults"`
	DefaultContent string            `json:"defaultContent"`
	Detailed       bool              `json:"detailed"`
	Class          string            `json:"class"`
}

// NodeClass returns the CSS class list the editor assigns to nodes of this template
func (t Template) NodeClass() string {
	switch {
	case t.Inputs > 0 && t.Outputs > 0:
		return NodeClassBase + " " + NodeClassIntermediate
	case t.Outputs > 0:
		return NodeClassBase + " " + NodeClassStart
	case t.Inputs > 0:
		return NodeClassBase + " " + NodeClassEnd
	default:
		return NodeClassBase
	}
}

var catalog = []Template{
	{
		ID:          TemplateBasicStart,
		DisplayName: "Basic Start Node",
		Icon:        "∷",
		Inputs:      0,
		Outputs:     1,
		Defaults: map[string]string{
			"--node-header-bg":  "#4f46e5",
			"--node-body-bg":    "#eef2ff",
			"--node-conn-color": "#4f46e5",
		},
		DefaultContent: "Start point",
	},
	{
		ID:          TemplateBasicIntermediate,
		DisplayName: "Basic Task Node",
		Icon:        "📄",
		Inputs:      1,
		Outputs:     1,
		Defaults: map[string]string{
			"--node-header-bg":  "#16a34a",
			"--node-body-bg":    "#f0fdf4",
			"--node-conn-color": "#16a34a",
		},
		DefaultContent: "Processing step",
	},
	{
		ID:          TemplateBasicEnd,
		DisplayName: "Basic End Node",
		Icon:        "🛑",
		Inputs:      1,
		Outputs:     0,
		Defaults: map[string]string{
			"--node-header-bg":  "#db2777",
			"--node-body-bg":    "#fdf2f8",
			"--node-conn-color": "#db2777",
		},
		DefaultContent: "End point",
	},
	{
		ID:          TemplateDetailedIntermediate,
		DisplayName: "Detailed Info Node",
		Icon:        "🧩",
		Inputs:      1,
		Outputs:     2,
		Defaults: map[string]string{
			"--node-header-bg":  "#059669",
			"--node-body-bg":    "#ecfdf5",
			"--node-conn-color": "#059669",
		},
		DefaultContent: "Detailed task",
		Detailed:       true,
	},
}

var (
	byID          = make(map[TemplateID]Template, len(catalog))
	byDisplayName = make(map[string]Template, len(catalog))
)

func init() {
	for i := range catalog {
		catalog[i].Class = catalog[i].NodeClass()
		byID[catalog[i].ID] = catalog[i]
		byDisplayName[catalog[i].DisplayName] = catalog[i]
	}
}

// Templates returns the catalog in definition order
func Templates() []Template {
	return slices.Clone(catalog)
}

// TemplateByID looks up a template by id
func TemplateByID(id TemplateID) (Template, bool) {
	t, ok := byID[id]
	return t, ok
}

// TemplateByDisplayName resolves a selector label to its template
func TemplateByDisplayName(name string) (Template, bool) {
	t, ok := byDisplayName[name]
	return t, ok
}

// DisplayNames returns the selector labels sorted alphabetically
func DisplayNames() []string {
	return slices.Sorted(maps.Keys(byDisplayName))
}

// Valid reports whether the id is in the catalog
func (id TemplateID) Valid() bool {
	_, ok := byID[id]
	return ok
}

// DisplayName returns the selector label for the id, or the id itself when unknown
func (id TemplateID) DisplayName() string {
	if t, ok := byID[id]; ok {
		return t.DisplayName
	}
	return string(id)
}
