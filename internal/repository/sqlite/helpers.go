package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"flowdesk/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeToMillis stores times as unix milliseconds so ordering stays numeric
func timeToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// millisToTime converts stored unix milliseconds back to UTC
func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ============================================================================
// Snapshot Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between:
// - snapshotColumns constant
// - scanArgs() return slice
// - snapshotInsertArgs() return slice

// snapshotRow holds all columns from a snapshot query for scanning
type snapshotRow struct {
	ID           string
	SessionID    sql.NullString
	CreatedAt    int64
	NodeCount    int
	DocumentJSON string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match snapshotColumns order exactly:
// id, session_id, created_at, node_count, document
func (r *snapshotRow) scanArgs() []any {
	return []any{
		&r.ID,           // 1
		&r.SessionID,    // 2
		&r.CreatedAt,    // 3
		&r.NodeCount,    // 4
		&r.DocumentJSON, // 5
	}
}

// toDomain converts the scanned row to a domain.Snapshot. The document is
// only decoded when withDocument is set.
func (r *snapshotRow) toDomain(withDocument bool) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		ID:        r.ID,
		SessionID: nullToString(r.SessionID),
		CreatedAt: millisToTime(r.CreatedAt),
		NodeCount: r.NodeCount,
	}

	if withDocument {
		doc := &domain.Document{}
		if err := json.Unmarshal([]byte(r.DocumentJSON), doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		snap.Document = doc
	}
	return snap, nil
}

// snapshotColumns returns the SELECT column list for snapshot queries
const snapshotColumns = `id, session_id, created_at, node_count, document`

// ============================================================================
// Snapshot Write Helpers
// ============================================================================

// snapshotInsertArgs prepares arguments for snapshot INSERT/UPSERT
// Returns: id, session_id, created_at, node_count, document
func snapshotInsertArgs(snap *domain.Snapshot) ([]any, error) {
	if snap.Document == nil {
		return nil, fmt.Errorf("snapshot %s has no document", snap.ID)
	}

	docJSON, err := json.Marshal(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return []any{
		snap.ID,
		stringToNull(snap.SessionID),
		timeToMillis(createdAt),
		snap.Document.NodeCount(),
		string(docJSON),
	}, nil
}
