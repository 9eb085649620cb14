// Package panel implements the control panel beside the flow editor: the
// node builder form, the zoom and layout buttons, and the export output.
package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"flowdesk/internal/bridge"
	"flowdesk/internal/codec"
	"flowdesk/internal/service"
)

// Output placeholders
const (
	NoDataPlaceholder = "// No data or export failed"
	ClearedMessage    = "// Editor Cleared"
)

// Output is the text area that shows export results and status lines
type Output interface {
	SetContent(ctx context.Context, content string)
}

// Publisher receives panel events
type Publisher interface {
	Publish(service.Event)
}

// Options configures a Panel
type Options struct {
	SessionID string
	Events    Publisher
	Logger    *log.Logger
}

// Panel turns UI actions into editor operations. It holds no state of its
// own; every action reads the form it is given.
type Panel struct {
	editor bridge.Editor
	out    Output
	opts   Options
}

// New creates a panel driving editor and writing to out
func New(editor bridge.Editor, out Output, opts Options) *Panel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Panel{editor: editor, out: out, opts: opts}
}

// AddNode creates a node from the form. Unknown templates and missing
// title or coordinates are reported on the output and returned without
// reaching the editor.
func (p *Panel) AddNode(ctx context.Context, form Form) error {
	id, params, err := form.Resolve()
	if err != nil {
		p.out.SetContent(ctx, "// "+err.Error())
		return err
	}

	if err := p.editor.AddTemplateNode(ctx, id, params); err != nil {
		p.out.SetContent(ctx, "// "+err.Error())
		return err
	}

	p.publish(service.EventNodeAdded, service.NodePayload{Template: id, Title: *params.Title})
	return nil
}

// Export shows the current document as indented JSON, or a placeholder
// when the editor has nothing to export.
func (p *Panel) Export(ctx context.Context) error {
	doc, err := p.editor.ExportData(ctx)
	if err != nil {
		if !errors.Is(err, bridge.ErrEmptyOrUnavailable) {
			p.opts.Logger.Warn("Export failed", "err", err)
		}
		p.out.SetContent(ctx, NoDataPlaceholder)
		return nil
	}

	text, err := codec.Pretty(doc)
	if err != nil {
		p.out.SetContent(ctx, NoDataPlaceholder)
		return fmt.Errorf("format export: %w", err)
	}

	p.out.SetContent(ctx, text)
	p.publish(service.EventDocumentExported, service.ExportPayload{Document: doc})
	return nil
}

// Clear empties the editor and reports it on the output
func (p *Panel) Clear(ctx context.Context) error {
	if err := p.editor.ClearEditor(ctx); err != nil {
		return err
	}
	p.out.SetContent(ctx, ClearedMessage)
	p.publish(service.EventEditorCleared, nil)
	return nil
}

// ZoomIn forwards to the editor
func (p *Panel) ZoomIn(ctx context.Context) error { return p.editor.ZoomIn(ctx) }

// ZoomOut forwards to the editor
func (p *Panel) ZoomOut(ctx context.Context) error { return p.editor.ZoomOut(ctx) }

// ResetZoom forwards to the editor
func (p *Panel) ResetZoom(ctx context.Context) error { return p.editor.ResetZoom(ctx) }

// AutoLayout repositions every node and waits for the editor to finish
func (p *Panel) AutoLayout(ctx context.Context) error {
	if err := p.editor.AutoLayoutNodes(ctx); err != nil {
		p.opts.Logger.Error("Auto-layout failed", "err", err)
		return err
	}
	p.publish(service.EventLayoutApplied, nil)
	return nil
}

// Handle runs the action named by a UI event. The form is only decoded for
// actions that read it.
func (p *Panel) Handle(ctx context.Context, action string, raw json.RawMessage) error {
	switch Action(action) {
	case ActionAddNode:
		form, err := DecodeForm(raw)
		if err != nil {
			p.out.SetContent(ctx, "// "+err.Error())
			return err
		}
		return p.AddNode(ctx, form)
	case ActionExport:
		return p.Export(ctx)
	case ActionClear:
		return p.Clear(ctx)
	case ActionZoomIn:
		return p.ZoomIn(ctx)
	case ActionZoomOut:
		return p.ZoomOut(ctx)
	case ActionResetZoom:
		return p.ResetZoom(ctx)
	case ActionAutoLayout:
		return p.AutoLayout(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func (p *Panel) publish(t service.EventType, payload any) {
	if p.opts.Events == nil {
		return
	}
	p.opts.Events.Publish(service.Event{Type: t, SessionID: p.opts.SessionID, Payload: payload})
}
