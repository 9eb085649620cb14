package handler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"flowdesk/internal/bridge"
	"flowdesk/internal/domain"
	"flowdesk/internal/hub"
	"flowdesk/internal/logging"
	"flowdesk/internal/panel"
	"flowdesk/internal/service"
)

// EventReady is sent by the page once the widget has mounted
const EventReady = "ready"

// Events dispatches page events to the panel of the session they came from
type Events struct {
	docs   *service.DocumentService
	bus    *service.EventBus
	bridge bridge.Options
	logger *log.Logger
}

var _ hub.EventHandler = (*Events)(nil)

// NewEvents creates the page event handler. docs may be nil, in which case
// every page starts empty.
func NewEvents(docs *service.DocumentService, bus *service.EventBus, opts bridge.Options, logger *log.Logger) *Events {
	if logger == nil {
		logger = log.Default()
	}
	return &Events{docs: docs, bus: bus, bridge: opts, logger: logger}
}

// HandleEvent implements hub.EventHandler
func (e *Events) HandleEvent(ctx context.Context, s *hub.Session, ev hub.Event) {
	logger := e.logger.With("session", s.ID)
	ctx = logging.WithLogger(ctx, logger)
	editor := e.editor(s, logger)

	if ev.Name == EventReady {
		e.ready(ctx, s, editor)
		return
	}

	p := panel.New(editor, s, panel.Options{
		SessionID: s.ID,
		Events:    e.bus,
		Logger:    logger,
	})
	err := p.Handle(ctx, ev.Name, ev.Form)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidParams):
		// already shown on the output
		logger.Debug("Rejected panel input", "action", ev.Name, "err", err)
	case errors.Is(err, panel.ErrUnknownAction):
		logger.Warn("Ignoring unknown page event", "name", ev.Name)
	default:
		logger.Error("Panel action failed", "action", ev.Name, "err", err)
		s.SetStatus(ctx, fmt.Sprintf("%s failed: %v", ev.Name, err))
	}
}

// ready loads the initial document into a freshly mounted editor
func (e *Events) ready(ctx context.Context, s *hub.Session, editor bridge.Editor) {
	logger := logging.FromContext(ctx)
	e.publish(service.Event{Type: service.EventSessionOpened, SessionID: s.ID})
	go func() {
		<-s.Done()
		e.publish(service.Event{Type: service.EventSessionClosed, SessionID: s.ID})
	}()

	if e.docs == nil {
		return
	}
	doc, err := e.docs.Initial(ctx)
	if err != nil {
		logger.Error("Failed to resolve initial document", "err", err)
		return
	}
	if err := editor.Initialize(ctx, doc); err != nil {
		logger.Error("Failed to load initial document", "err", err)
		s.SetStatus(ctx, "Initial document could not be loaded")
		return
	}
	if doc != nil {
		logger.Debug("Loaded initial document", "nodes", doc.NodeCount())
	}
}

func (e *Events) editor(s *hub.Session, logger *log.Logger) *bridge.Widget {
	opts := e.bridge
	opts.Logger = logger
	return bridge.New(s, opts)
}

func (e *Events) publish(ev service.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// Reloader pushes the initial document file to every open page when it
// changes on disk
type Reloader struct {
	docs   *service.DocumentService
	hub    *hub.Hub
	bridge bridge.Options
	logger *log.Logger
}

// NewReloader creates a reloader for the pages connected to h
func NewReloader(docs *service.DocumentService, h *hub.Hub, opts bridge.Options, logger *log.Logger) *Reloader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reloader{docs: docs, hub: h, bridge: opts, logger: logger}
}

// Reload rereads the document file and imports it into every session. An
// empty or deleted file clears the editors; an invalid one leaves them as
// they are.
func (r *Reloader) Reload(ctx context.Context) {
	name := filepath.Base(r.docs.Path())

	doc, err := r.docs.Reload(ctx)
	if err != nil {
		r.logger.Error("Reload failed", "err", err)
		r.hub.Broadcast(hub.MethodSetStatus, fmt.Sprintf("Reload of %s failed: %v", name, err))
		return
	}

	sessions := r.hub.Sessions()
	for _, s := range sessions {
		opts := r.bridge
		opts.Logger = r.logger.With("session", s.ID)
		editor := bridge.New(s, opts)

		if doc == nil || doc.IsEmpty() {
			err = editor.ClearEditor(ctx)
		} else {
			err = editor.ImportData(ctx, doc)
		}
		if err != nil {
			opts.Logger.Warn("Failed to push reloaded document", "err", err)
		}
	}

	r.logger.Info("Reloaded document", "path", r.docs.Path(), "sessions", len(sessions))
	r.hub.Broadcast(hub.MethodSetStatus, "Reloaded "+name)
}
