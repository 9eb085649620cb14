package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"flowdesk/internal/bridge"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 << 20
	sendBuffer     = 256
)

// EventHandler receives UI events from a session. Each event is handled in its
// own goroutine.
type EventHandler interface {
	HandleEvent(ctx context.Context, s *Session, ev Event)
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc func(ctx context.Context, s *Session, ev Event)

// HandleEvent calls f
func (f EventHandlerFunc) HandleEvent(ctx context.Context, s *Session, ev Event) {
	f(ctx, s, ev)
}

type reply struct {
	result json.RawMessage
	err    string
}

// Session is one page connected over a websocket. It implements
// bridge.Transport for the editor on that page.
type Session struct {
	ID string

	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	logger  *log.Logger
	handler EventHandler

	ctx    context.Context
	cancel context.CancelFunc

	// closed by the hub once ID is final
	registered chan struct{}

	mu        sync.Mutex
	pending   map[string]chan reply
	closeOnce sync.Once
}

var _ bridge.Transport = (*Session)(nil)

func newSession(ctx context.Context, id string, conn *websocket.Conn, handler EventHandler, logger *log.Logger) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ID:      id,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		logger:  logger.With("session", id),
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]chan reply),

		registered: make(chan struct{}),
	}
}

// Context is canceled when the session closes
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done is closed when the session closes
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Call invokes an editor method and waits for the page's result
func (s *Session) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	return s.call(ctx, TargetEditor, method, args)
}

// Notify sends a one-way editor message
func (s *Session) Notify(ctx context.Context, method string, args ...any) error {
	return s.notify(ctx, TargetEditor, method, args)
}

// SetContent replaces the text of the page's output area
func (s *Session) SetContent(ctx context.Context, content string) {
	if err := s.notify(ctx, TargetPanel, MethodSetContent, []any{content}); err != nil {
		s.logger.Debug("Dropped output update", "err", err)
	}
}

// SetStatus shows a short status line on the page
func (s *Session) SetStatus(ctx context.Context, status string) {
	if err := s.notify(ctx, TargetPanel, MethodSetStatus, []any{status}); err != nil {
		s.logger.Debug("Dropped status update", "err", err)
	}
}

func (s *Session) call(ctx context.Context, target, method string, args []any) (json.RawMessage, error) {
	payload, err := encodeArgs(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", method, err)
	}

	id := uuid.NewString()
	ch := make(chan reply, 1)

	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil, bridge.ErrClosed
	}
	s.pending[id] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	msg := Message{Type: TypeCall, ID: id, Target: target, Method: method, Args: payload}
	if err := s.enqueue(ctx, msg); err != nil {
		return nil, err
	}

	select {
	case r := <-ch:
		if r.err != "" {
			return nil, &bridge.RemoteError{Method: method, Message: r.err}
		}
		return r.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, bridge.ErrClosed
	}
}

func (s *Session) notify(ctx context.Context, target, method string, args []any) error {
	payload, err := encodeArgs(args)
	if err != nil {
		return fmt.Errorf("encode %s arguments: %w", method, err)
	}
	return s.enqueue(ctx, Message{Type: TypeNotify, Target: target, Method: method, Args: payload})
}

// enqueue hands msg to the writer. Messages enqueued by one goroutine are
// written in order.
func (s *Session) enqueue(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-s.done:
		return bridge.ErrClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return bridge.ErrClosed
	}
}

// offer queues msg without blocking and reports whether it was accepted
func (s *Session) offer(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	select {
	case <-s.done:
		return false
	case s.send <- data:
		return true
	default:
		return false
	}
}

// readLoop routes results to waiting calls and dispatches events
func (s *Session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Unexpected close", "err", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("Discarding undecodable message", "err", err)
			continue
		}

		switch msg.Type {
		case TypeResult, TypeError:
			s.resolve(msg)
		case TypeEvent:
			if s.handler == nil {
				continue
			}
			ev := Event{Name: msg.Name, Form: msg.Form}
			go s.handler.HandleEvent(s.ctx, s, ev)
		default:
			s.logger.Warn("Unknown message type", "type", msg.Type)
		}
	}
}

func (s *Session) resolve(msg Message) {
	s.mu.Lock()
	ch, ok := s.pending[msg.ID]
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("Result for unknown call", "id", msg.ID)
		return
	}

	r := reply{result: msg.Result, err: msg.Error}
	if msg.Type == TypeError {
		if r.err == "" {
			r.err = "widget error"
		}
		s.logger.Debug("Widget error", "id", msg.ID, "err", r.err)
	}

	// a repeated id must not stall the reader
	select {
	case ch <- r:
	default:
		s.logger.Debug("Dropping duplicate reply", "id", msg.ID)
	}
}

// writeLoop owns all writes to the connection
func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Write failed", "err", err)
				s.close()
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()

		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	})
}
