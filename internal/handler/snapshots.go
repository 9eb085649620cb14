package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flowdesk/internal/codec"
	"flowdesk/internal/service"
)

const defaultSnapshotLimit = 50

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
	"yml":  "application/yaml",
	"dot":  "text/vnd.graphviz",
	"svg":  "image/svg+xml",
}

// ListSnapshots returns snapshot summaries newest first. ?limit= bounds the
// result; the default is 50.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.opts.Snapshots == nil {
		h.writeError(w, "Snapshots unavailable", "", http.StatusServiceUnavailable)
		return
	}

	limit := defaultSnapshotLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.writeError(w, "Invalid limit", s, http.StatusBadRequest)
			return
		}
		limit = n
	}

	snaps, err := h.opts.Snapshots.List(r.Context(), limit)
	if err != nil {
		h.opts.Logger.Error("Failed to list snapshots", "err", err)
		h.writeError(w, "Failed to list snapshots", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"snapshots": snaps,
		"count":     len(snaps),
	}, http.StatusOK)
}

// GetSnapshot writes one snapshot's document in the requested format
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.opts.Snapshots == nil {
		h.writeError(w, "Snapshots unavailable", "", http.StatusServiceUnavailable)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, err := codec.ExporterFor(format)
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := h.opts.Snapshots.Get(r.Context(), id)
	if errors.Is(err, service.ErrSnapshotNotFound) {
		h.writeError(w, "Snapshot not found", id, http.StatusNotFound)
		return
	}
	if err != nil {
		h.opts.Logger.Error("Failed to get snapshot", "id", id, "err", err)
		h.writeError(w, "Failed to get snapshot", err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(snap.Document, &buf); err != nil {
		h.opts.Logger.Error("Failed to export snapshot", "id", id, "format", format, "err", err)
		h.writeError(w, "Failed to export snapshot", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypes[exporter.Format()])
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", "attachment; filename=flow-"+snap.ID+"."+exporter.Format())
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// DeleteSnapshot removes a snapshot
func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.opts.Snapshots == nil {
		h.writeError(w, "Snapshots unavailable", "", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.opts.Snapshots.Delete(r.Context(), id)
	if errors.Is(err, service.ErrSnapshotNotFound) {
		h.writeError(w, "Snapshot not found", id, http.StatusNotFound)
		return
	}
	if err != nil {
		h.opts.Logger.Error("Failed to delete snapshot", "id", id, "err", err)
		h.writeError(w, "Failed to delete snapshot", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
