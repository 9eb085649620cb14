package domain

import "time"

// Snapshot is a stored export of an editor session
type Snapshot struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	NodeCount int       `json:"node_count"`
	Document  *Document `json:"document,omitempty"`
}

// NewSnapshot captures doc at the current time
func NewSnapshot(id, sessionID string, doc *Document) *Snapshot {
	return &Snapshot{
		ID:        id,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
		NodeCount: doc.NodeCount(),
		Document:  doc,
	}
}
