package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"flowdesk/internal/domain"
)

// Widget method names
const (
	MethodImportData      = "importData"
	MethodExportData      = "exportData"
	MethodClearEditor     = "clearEditor"
	MethodAddTemplateNode = "addTemplateNode"
	MethodZoomIn          = "zoomIn"
	MethodZoomOut         = "zoomOut"
	MethodResetZoom       = "resetZoom"
	MethodAutoLayoutNodes = "autoLayoutNodes"
)

// DefaultCallTimeout bounds request/response calls when Options leaves it unset
const DefaultCallTimeout = 30 * time.Second

// Transport invokes widget methods by name with positional arguments
type Transport interface {
	// Call sends a request and waits for the widget's result
	Call(ctx context.Context, method string, args ...any) (json.RawMessage, error)
	// Notify sends a one-way message
	Notify(ctx context.Context, method string, args ...any) error
}

// Observer receives the outcome of every bridge operation
type Observer interface {
	ObserveCall(method string, elapsed time.Duration, err error)
}

// Editor is the operation set of the embedded flow editor
type Editor interface {
	Initialize(ctx context.Context, doc *domain.Document) error
	ImportData(ctx context.Context, doc *domain.Document) error
	ExportData(ctx context.Context) (*domain.Document, error)
	ClearEditor(ctx context.Context) error
	AddTemplateNode(ctx context.Context, id domain.TemplateID, params domain.NodeParams) error
	ZoomIn(ctx context.Context) error
	ZoomOut(ctx context.Context) error
	ResetZoom(ctx context.Context) error
	AutoLayoutNodes(ctx context.Context) error
}

// Options configures a Widget
type Options struct {
	CallTimeout time.Duration
	Layout      LayoutOptions
	Logger      *log.Logger
	Observer    Observer
}

// Widget implements Editor over a Transport
type Widget struct {
	transport Transport
	opts      Options
}

var _ Editor = (*Widget)(nil)

// New creates a widget bridge
func New(t Transport, opts Options) *Widget {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Layout == (LayoutOptions{}) {
		opts.Layout = DefaultLayoutOptions()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Widget{transport: t, opts: opts}
}

// Initialize loads the initial document. A nil or empty document leaves the
// editor with its default empty module.
func (w *Widget) Initialize(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.IsEmpty() {
		return nil
	}
	return w.ImportData(ctx, doc)
}

// ImportData replaces the editor state with doc. The document is validated
// before anything is sent.
func (w *Widget) ImportData(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		w.observe(MethodImportData, 0, err)
		return err
	}

	if _, err := w.call(ctx, MethodImportData, doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRendering, MethodImportData, err)
	}
	return nil
}

// ExportData reads the current editor state. Empty documents, null results,
// undecodable results and failed calls all return ErrEmptyOrUnavailable.
func (w *Widget) ExportData(ctx context.Context) (*domain.Document, error) {
	raw, err := w.call(ctx, MethodExportData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmptyOrUnavailable, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptyOrUnavailable
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		w.opts.Logger.Warn("Discarding undecodable export", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmptyOrUnavailable, err)
	}
	if doc.IsEmpty() {
		return nil, ErrEmptyOrUnavailable
	}
	return &doc, nil
}

// ClearEditor removes all nodes and connections
func (w *Widget) ClearEditor(ctx context.Context) error {
	return w.notify(ctx, MethodClearEditor)
}

// AddTemplateNode instantiates a template node. Params missing title, x or y
// fail with domain.ErrInvalidParams and nothing is sent to the widget.
func (w *Widget) AddTemplateNode(ctx context.Context, id domain.TemplateID, params domain.NodeParams) error {
	if err := params.Validate(); err != nil {
		w.observe(MethodAddTemplateNode, 0, err)
		return err
	}
	return w.notify(ctx, MethodAddTemplateNode, string(id), params)
}

// ZoomIn increases the view scale
func (w *Widget) ZoomIn(ctx context.Context) error {
	return w.notify(ctx, MethodZoomIn)
}

// ZoomOut decreases the view scale
func (w *Widget) ZoomOut(ctx context.Context) error {
	return w.notify(ctx, MethodZoomOut)
}

// ResetZoom restores the default view scale
func (w *Widget) ResetZoom(ctx context.Context) error {
	return w.notify(ctx, MethodResetZoom)
}

// AutoLayoutNodes asks the widget's layout engine to reposition every node
// and waits until it reports completion.
func (w *Widget) AutoLayoutNodes(ctx context.Context) error {
	if _, err := w.call(ctx, MethodAutoLayoutNodes, w.opts.Layout.Request()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRendering, MethodAutoLayoutNodes, err)
	}
	return nil
}

func (w *Widget) call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, w.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	res, err := w.transport.Call(ctx, method, args...)
	w.observe(method, time.Since(start), err)
	if err != nil {
		w.opts.Logger.Debug("Widget call failed", "method", method, "err", err)
	}
	return res, err
}

func (w *Widget) notify(ctx context.Context, method string, args ...any) error {
	start := time.Now()
	err := w.transport.Notify(ctx, method, args...)
	w.observe(method, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (w *Widget) observe(method string, elapsed time.Duration, err error) {
	if w.opts.Observer != nil {
		w.opts.Observer.ObserveCall(method, elapsed, err)
	}
}
