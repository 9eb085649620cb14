package panel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"flowdesk/internal/domain"
)

// Action names a panel button
type Action string

const (
	ActionAddNode    Action = "addNode"
	ActionExport     Action = "export"
	ActionClear      Action = "clear"
	ActionZoomIn     Action = "zoomIn"
	ActionZoomOut    Action = "zoomOut"
	ActionResetZoom  Action = "resetZoom"
	ActionAutoLayout Action = "autoLayout"
)

// ErrUnknownAction is returned by Handle for unrecognized event names
var ErrUnknownAction = errors.New("unknown action")

// Form is the node builder input. Nil coordinates and title mean the field
// was left empty.
type Form struct {
	Template string   `json:"template"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Title    *string  `json:"title"`
	Content  string   `json:"content"`
	Tooltip  string   `json:"tooltip"`
}

// DefaultForm returns the values the node builder starts with
func DefaultForm() Form {
	x, y := 50.0, 50.0
	title := "My Node"
	return Form{
		Template: domain.DefaultTemplate.DisplayName(),
		X:        &x,
		Y:        &y,
		Title:    &title,
		Content:  "Node details...",
		Tooltip:  "More info here",
	}
}

// DecodeForm reads a form submitted by the page. An empty body yields the
// zero form, which fails validation.
func DecodeForm(raw json.RawMessage) (Form, error) {
	var form Form
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return form, nil
	}
	if err := json.Unmarshal(raw, &form); err != nil {
		return form, fmt.Errorf("%w: %w", domain.ErrInvalidParams, err)
	}
	return form, nil
}

// Resolve maps the selected display name to a template and validates the
// node parameters.
func (f Form) Resolve() (domain.TemplateID, domain.NodeParams, error) {
	tpl, ok := domain.TemplateByDisplayName(f.Template)
	if !ok {
		return "", domain.NodeParams{}, fmt.Errorf("%w: unknown template %q", domain.ErrInvalidParams, f.Template)
	}

	params := domain.NodeParams{
		Title:   f.Title,
		X:       f.X,
		Y:       f.Y,
		Content: f.Content,
		Tooltip: f.Tooltip,
	}
	if err := params.Validate(); err != nil {
		return "", domain.NodeParams{}, err
	}
	return tpl.ID, params, nil
}
