package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"flowdesk/internal/hub"
	"flowdesk/internal/metrics"
	"flowdesk/internal/service"
)

const pageTemplate = "index.html.tmpl"

// Options configures a Handler
type Options struct {
	Hub       *hub.Hub
	Snapshots *service.SnapshotService
	Metrics   *metrics.Collector

	// Web holds the page template and the files served under /static/
	Web fs.FS
	// AssetsDir holds the Drawflow and ELK bundles served under /drawflow_src/
	AssetsDir string
	// AllowedOrigins for cross-origin API requests; empty allows any
	AllowedOrigins []string

	Logger *log.Logger
	// Now stamps asset URLs; defaults to time.Now
	Now func() time.Time
}

// Handler serves the editor page, its websocket and the snapshot API
type Handler struct {
	opts Options
	page *template.Template
}

// New creates a handler. The page template is parsed up front so a broken
// template fails at startup.
func New(opts Options) (*Handler, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Web == nil {
		return nil, fmt.Errorf("web assets are required")
	}

	page, err := template.ParseFS(opts.Web, pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Handler{opts: opts, page: page}, nil
}

// Routes returns the router with middleware applied
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Recover(h.opts.Logger))
	r.Use(Logger(h.opts.Logger, h.opts.Metrics))
	r.Use(CORS(h.opts.AllowedOrigins))

	r.Get("/", h.Page)
	r.Get("/health", h.Health)

	r.Get("/ws", h.ServeSession)
	r.Get("/ws/{session}", h.ServeSession)

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", h.ListTemplates)
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.ListSnapshots)
			r.Get("/{id}", h.GetSnapshot)
			r.Delete("/{id}", h.DeleteSnapshot)
		})
	})

	if h.opts.Metrics != nil {
		r.Handle("/metrics", h.opts.Metrics.Handler())
	}

	if h.opts.AssetsDir != "" {
		r.Handle("/drawflow_src/*", http.StripPrefix("/drawflow_src/", http.FileServer(http.Dir(h.opts.AssetsDir))))
	}
	if static, err := fs.Sub(h.opts.Web, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	return r
}

// ServeSession upgrades the request to the page's websocket. The session id
// comes from the path or the session query parameter.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	if h.opts.Hub == nil {
		h.writeError(w, "Sessions unavailable", "", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "session")
	if id == "" {
		id = r.URL.Query().Get("session")
	}
	h.opts.Hub.Serve(w, r, id)
}

// Health reports liveness and the number of open pages
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sessions := 0
	if h.opts.Hub != nil {
		sessions = h.opts.Hub.SessionCount()
	}
	h.writeJSON(w, map[string]any{"status": "ok", "sessions": sessions}, http.StatusOK)
}

// ErrorResponse is the body of every failed API request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.opts.Logger.Error("Failed to encode JSON response", "err", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, message, details string, status int) {
	h.writeJSON(w, ErrorResponse{
		Error:   message,
		Details: details,
	}, status)
}
