package hub

import "encoding/json"

// Message types exchanged with the page
const (
	// server to page
	TypeCall   = "call"
	TypeNotify = "notify"

	// page to server
	TypeResult = "result"
	TypeEvent  = "event"
	TypeError  = "error"
)

// Message targets on the page
const (
	TargetEditor = "editor"
	TargetPanel  = "panel"
)

// Panel methods
const (
	MethodSetContent = "setContent"
	MethodSetStatus  = "setStatus"
)

// Message is one websocket frame. Calls carry an ID that the page echoes in
// its result; notifications and events have none.
type Message struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Target string          `json:"target,omitempty"`
	Method string          `json:"method,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Name   string          `json:"name,omitempty"`
	Form   json.RawMessage `json:"form,omitempty"`
}

// Event is a UI interaction reported by the page
type Event struct {
	Name string
	Form json.RawMessage
}

func encodeArgs(args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	return json.Marshal(args)
}
