package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"flowdesk/internal/domain"
	"flowdesk/internal/panel"
)

// Widget bundles loaded by the page, in load order
var widgetStyles = []string{"drawflow.min.css", "dfTheme.css", "custom_drawflow.css"}
var widgetScripts = []string{"drawflow.min.js", "elk.bundled.js"}

type pageData struct {
	Styles      []string
	Scripts     []string
	Version     string
	Templates   []string
	Catalog     []domain.Template
	Form        formView
	Placeholder string
}

// formView is the node builder's initial state
type formView struct {
	Template string
	X, Y     float64
	Title    string
	Content  string
	Tooltip  string
}

func newFormView(f panel.Form) formView {
	v := formView{Template: f.Template, Content: f.Content, Tooltip: f.Tooltip}
	if f.X != nil {
		v.X = *f.X
	}
	if f.Y != nil {
		v.Y = *f.Y
	}
	if f.Title != nil {
		v.Title = *f.Title
	}
	return v
}

// Page renders the editor page. Widget asset URLs carry the render time so
// browsers fetch fresh bundles on every load.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	version := strconv.FormatInt(h.opts.Now().Unix(), 10)

	data := pageData{
		Version:     version,
		Templates:   domain.DisplayNames(),
		Catalog:     domain.Templates(),
		Form:        newFormView(panel.DefaultForm()),
		Placeholder: panel.NoDataPlaceholder,
	}
	for _, name := range widgetStyles {
		data.Styles = append(data.Styles, assetURL(name, version))
	}
	for _, name := range widgetScripts {
		data.Scripts = append(data.Scripts, assetURL(name, version))
	}

	var buf bytes.Buffer
	if err := h.page.ExecuteTemplate(&buf, pageTemplate, data); err != nil {
		h.opts.Logger.Error("Failed to render page", "err", err)
		h.writeError(w, "Failed to render page", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// ListTemplates returns the node template catalog
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, domain.Templates(), http.StatusOK)
}

func assetURL(name, version string) string {
	return "/drawflow_src/" + name + "?v=" + version
}
