// Package bridgetest provides an in-memory flow editor for bridge tests.
package bridgetest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"flowdesk/internal/bridge"
	"flowdesk/internal/domain"
)

const (
	zoomStep = 0.1
	zoomMin  = 0.3
	zoomMax  = 1.6

	nodeWidth  = 180.0
	nodeHeight = 90.0
)

// Invocation records one method received by the widget
type Invocation struct {
	Method string
	Args   []json.RawMessage
}

// Widget is a scripted editor that implements bridge.Transport. It keeps a
// document the way the real editor does: node ids count up from 1, clearing
// recreates the Home module, and unknown templates are ignored.
type Widget struct {
	mu          sync.Mutex
	doc         *domain.Document
	nextID      int
	zoom        float64
	invocations []Invocation
	failures    map[string]error
	hangs       map[string]bool
	nullExport  bool
}

var _ bridge.Transport = (*Widget)(nil)

// New creates an empty widget
func New() *Widget {
	return &Widget{
		doc:      domain.NewDocument(),
		nextID:   1,
		zoom:     1,
		failures: make(map[string]error),
		hangs:    make(map[string]bool),
	}
}

// FailOn makes the named method raise msg inside the widget
func (w *Widget) FailOn(method, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[method] = &bridge.RemoteError{Method: method, Message: msg}
}

// HangOn makes the named method never respond
func (w *Widget) HangOn(method string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hangs[method] = true
}

// ExportNull makes exportData return null, as an uninitialized editor does
func (w *Widget) ExportNull() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nullExport = true
}

// Invocations returns every method received so far
func (w *Widget) Invocations() []Invocation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.invocations)
}

// Methods returns the names of every method received so far
func (w *Widget) Methods() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	methods := make([]string, 0, len(w.invocations))
	for _, inv := range w.invocations {
		methods = append(methods, inv.Method)
	}
	return methods
}

// Document returns a copy of the current editor state
func (w *Widget) Document() *domain.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, _ := w.doc.Clone()
	return doc
}

// Zoom returns the current view scale
func (w *Widget) Zoom() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.zoom
}

// Call implements bridge.Transport
func (w *Widget) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	raw, err := w.record(method, args)
	if err != nil {
		return nil, err
	}

	if w.hanging(method) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.failures[method]; err != nil {
		return nil, err
	}

	switch method {
	case bridge.MethodExportData:
		if w.nullExport {
			return json.RawMessage("null"), nil
		}
		return json.Marshal(w.doc)

	case bridge.MethodImportData:
		if len(raw) != 1 {
			return nil, &bridge.RemoteError{Method: method, Message: "expected one argument"}
		}
		doc, err := domain.ParseDocument(raw[0])
		if err != nil {
			return nil, &bridge.RemoteError{Method: method, Message: err.Error()}
		}
		w.doc = doc
		w.nextID = maxNumericID(doc) + 1
		return json.RawMessage("null"), nil

	case bridge.MethodAutoLayoutNodes:
		var req bridge.LayoutRequest
		if len(raw) == 1 {
			if err := json.Unmarshal(raw[0], &req); err != nil {
				return nil, &bridge.RemoteError{Method: method, Message: err.Error()}
			}
		}
		w.layout(req)
		return json.RawMessage("null"), nil

	default:
		if err := w.apply(method, raw); err != nil {
			return nil, err
		}
		return json.RawMessage("null"), nil
	}
}

// Notify implements bridge.Transport
func (w *Widget) Notify(ctx context.Context, method string, args ...any) error {
	raw, err := w.record(method, args)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failures[method] != nil {
		// one-way messages have nobody to report to
		return nil
	}
	_ = w.apply(method, raw)
	return nil
}

func (w *Widget) record(method string, args []any) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		data, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("encode %s argument: %w", method, err)
		}
		raw = append(raw, data)
	}

	w.mu.Lock()
	w.invocations = append(w.invocations, Invocation{Method: method, Args: raw})
	w.mu.Unlock()
	return raw, nil
}

func (w *Widget) hanging(method string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hangs[method]
}

// apply runs a command; callers hold w.mu
func (w *Widget) apply(method string, raw []json.RawMessage) error {
	switch method {
	case bridge.MethodClearEditor:
		w.doc = domain.NewDocument()
	case bridge.MethodZoomIn:
		w.zoom = math.Min(zoomMax, w.zoom+zoomStep)
	case bridge.MethodZoomOut:
		w.zoom = math.Max(zoomMin, w.zoom-zoomStep)
	case bridge.MethodResetZoom:
		w.zoom = 1
	case bridge.MethodAddTemplateNode:
		return w.addTemplateNode(raw)
	default:
		return &bridge.RemoteError{Method: method, Message: "unknown method"}
	}
	return nil
}

func (w *Widget) addTemplateNode(raw []json.RawMessage) error {
	if len(raw) != 2 {
		return &bridge.RemoteError{Method: bridge.MethodAddTemplateNode, Message: "expected two arguments"}
	}

	var id domain.TemplateID
	var params struct {
		Title   string  `json:"title"`
		X       float64 `json:"x"`
		Y       float64 `json:"y"`
		Content string  `json:"content"`
		Tooltip string  `json:"tooltip"`
	}
	if err := json.Unmarshal(raw[0], &id); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &params); err != nil {
		return err
	}

	tpl, ok := domain.TemplateByID(id)
	if !ok {
		return &bridge.RemoteError{Method: bridge.MethodAddTemplateNode, Message: "template not found: " + string(id)}
	}

	node := &domain.Node{
		ID:   domain.IntNodeID(w.nextID),
		Name: params.Title,
		Data: map[string]any{
			"templateId": string(tpl.ID),
			"title":      params.Title,
			"content":    params.Content,
			"tooltip":    params.Tooltip,
		},
		Class:   tpl.Class,
		HTML:    fmt.Sprintf(`<div class="template-node-wrapper"><strong>%s</strong></div>`, params.Title),
		Kind:    domain.RenderMarkup,
		Inputs:  ports("input", tpl.Inputs),
		Outputs: ports("output", tpl.Outputs),
		PosX:    params.X,
		PosY:    params.Y,
	}

	home := w.doc.Module(domain.DefaultModule)
	if home == nil {
		home = domain.NewModule()
		w.doc.Modules[domain.DefaultModule] = home
	}
	home.Data[node.ID.String()] = node
	w.nextID++
	return nil
}

// Connect links an output port to an input port, as a user drag would
func (w *Widget) Connect(fromID, outputPort, toID, inputPort string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	home := w.doc.Module(domain.DefaultModule)
	from, to := home.Data[fromID], home.Data[toID]
	if from == nil || to == nil {
		return fmt.Errorf("unknown node %s or %s", fromID, toID)
	}
	out, okOut := from.Outputs[outputPort]
	in, okIn := to.Inputs[inputPort]
	if !okOut || !okIn {
		return fmt.Errorf("unknown port %s.%s or %s.%s", fromID, outputPort, toID, inputPort)
	}

	out.Connections = append(out.Connections, domain.Connection{Node: toID, Output: inputPort})
	in.Connections = append(in.Connections, domain.Connection{Node: fromID, Input: outputPort})
	from.Outputs[outputPort] = out
	to.Inputs[inputPort] = in
	return nil
}

// layout assigns each Home node a column by longest path from a source and a
// row by key order within the column. Connections are left untouched.
func (w *Widget) layout(req bridge.LayoutRequest) {
	home := w.doc.Module(domain.DefaultModule)
	if home == nil || len(home.Data) == 0 {
		return
	}

	layerSpacing := spacing(req.LayoutOptions, "elk.layered.spacing.nodeNodeBetweenLayers", 100)
	nodeSpacing := spacing(req.LayoutOptions, "elk.spacing.nodeNode", 70)

	rank := make(map[string]int, len(home.Data))
	keys := slices.Sorted(maps.Keys(home.Data))
	for range keys {
		changed := false
		for _, key := range keys {
			for _, port := range home.Data[key].Outputs {
				for _, conn := range port.Connections {
					if _, ok := home.Data[conn.Node]; ok && rank[conn.Node] < rank[key]+1 {
						rank[conn.Node] = rank[key] + 1
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	rows := make(map[int]int)
	for _, key := range keys {
		r := rank[key]
		node := home.Data[key]
		node.PosX = req.OffsetX + float64(r)*(nodeWidth+layerSpacing)
		node.PosY = req.OffsetY + float64(rows[r])*(nodeHeight+nodeSpacing)
		rows[r]++
	}
}

func ports(prefix string, n int) map[string]domain.Port {
	out := make(map[string]domain.Port, n)
	for i := 1; i <= n; i++ {
		out[prefix+"_"+strconv.Itoa(i)] = domain.Port{Connections: []domain.Connection{}}
	}
	return out
}

func spacing(opts map[string]string, key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(opts[key], 64); err == nil {
		return v
	}
	return fallback
}

func maxNumericID(doc *domain.Document) int {
	highest := 0
	for _, name := range doc.ModuleNames() {
		for _, node := range doc.Nodes(name) {
			if n, err := strconv.Atoi(node.ID.String()); err == nil && n > highest {
				highest = n
			}
		}
	}
	return highest
}
