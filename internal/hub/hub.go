// Package hub manages the websocket sessions of connected editor pages.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub tracks live sessions and fans messages out to all of them
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	register   chan *Session
	unregister chan *Session
	broadcast  chan Message

	upgrader websocket.Upgrader
	handler  EventHandler
	logger   *log.Logger
	ctx      context.Context
}

// New creates a hub that dispatches page events to handler
func New(handler EventHandler, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan Message, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		handler: handler,
		logger:  logger,
		ctx:     context.Background(),
	}
}

// Run starts the hub's event loop and blocks until ctx is done. Remaining
// sessions are closed on return.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.ctx = ctx
	h.mu.Unlock()

	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			if _, taken := h.sessions[s.ID]; taken {
				// a duplicated tab carries its origin's session id
				h.logger.Info("Session id in use, assigning a new one", "session", s.ID)
				s.ID = uuid.NewString()
				s.logger = h.logger.With("session", s.ID)
			}
			h.sessions[s.ID] = s
			n := len(h.sessions)
			h.mu.Unlock()
			close(s.registered)
			h.logger.Info("Session connected", "session", s.ID, "total", n)

		case s := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.sessions[s.ID]; ok && cur == s {
				delete(h.sessions, s.ID)
			}
			n := len(h.sessions)
			h.mu.Unlock()
			h.logger.Info("Session disconnected", "session", s.ID, "total", n)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, s := range h.sessions {
				if !s.offer(msg) {
					h.logger.Warn("Session is slow, skipping message", "session", s.ID)
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for id, s := range h.sessions {
				s.close()
				delete(h.sessions, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast sends a panel notification to every session
func (h *Hub) Broadcast(method string, args ...any) {
	payload, err := encodeArgs(args)
	if err != nil {
		h.logger.Error("Failed to encode broadcast", "method", method, "err", err)
		return
	}

	select {
	case h.broadcast <- Message{Type: TypeNotify, Target: TargetPanel, Method: method, Args: payload}:
	default:
		h.logger.Warn("Broadcast channel full, dropping message", "method", method)
	}
}

// Session returns a live session by id
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Sessions returns a snapshot of the live sessions
func (h *Hub) Sessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// SessionCount returns the number of live sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ServeHTTP upgrades the request and serves a session until the page goes
// away. The session id comes from the "session" query parameter, or is
// generated when absent.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Serve(w, r, r.URL.Query().Get("session"))
}

// Serve upgrades the request and serves the session with the given id
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "err", err)
		return
	}

	h.mu.RLock()
	ctx := h.ctx
	h.mu.RUnlock()

	s := newSession(ctx, id, conn, h.handler, h.logger)
	select {
	case h.register <- s:
		<-s.registered
	case <-ctx.Done():
		conn.Close()
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	hello, _ := json.Marshal([]string{s.ID})
	_ = s.enqueue(ctx, Message{Type: TypeNotify, Target: TargetPanel, Method: "hello", Args: hello})

	s.readLoop()

	s.close()
	select {
	case h.unregister <- s:
	case <-ctx.Done():
	}
	<-writerDone
	conn.Close()
}
