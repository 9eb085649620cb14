package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"flowdesk/internal/domain"
	"flowdesk/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to :memory: is a separate database
	if isMemory(dbPath) {
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(path string) string {
	if isMemory(path) {
		return ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func isMemory(path string) bool {
	return path == ":memory:" || path == ""
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		created_at INTEGER NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		document JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveSnapshot stores a snapshot, replacing any snapshot with the same id
func (r *Repository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	args, err := snapshotInsertArgs(snap)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			created_at = excluded.created_at,
			node_count = excluded.node_count,
			document = excluded.document
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot with its document
func (r *Repository) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	var row snapshotRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return row.toDomain(true)
}

// LatestSnapshot returns the most recently created snapshot
func (r *Repository) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var row snapshotRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+` FROM snapshots
		ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return row.toDomain(true)
}

// ListSnapshots returns snapshots newest first without their documents.
// A limit of zero or less returns all of them.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make([]domain.Snapshot, 0)
	for rows.Next() {
		var row snapshotRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap, err := row.toDomain(false)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes a snapshot
func (r *Repository) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// PruneSnapshots keeps the newest keep snapshots and deletes the rest. It
// returns the number of deleted rows. A keep of zero or less disables pruning.
func (r *Repository) PruneSnapshots(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
