package repository

import (
	"context"

	"flowdesk/internal/domain"
)

// Repository defines the interface for snapshot storage
type Repository interface {
	// Write operations
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
	DeleteSnapshot(ctx context.Context, id string) error
	PruneSnapshots(ctx context.Context, keep int) (int64, error)

	// Read operations. Missing snapshots return nil without error.
	GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error)
	LatestSnapshot(ctx context.Context) (*domain.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error)

	// Close releases resources
	Close() error
}
