package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"flowdesk/internal/domain"
	"flowdesk/internal/repository"
)

// ErrSnapshotNotFound is returned when a snapshot id is unknown
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotService records exported documents
type SnapshotService struct {
	repo     repository.Repository
	eventBus *EventBus
	keep     int
	logger   *log.Logger
}

// NewSnapshotService creates a snapshot service that keeps at most keep
// snapshots. A keep of zero or less keeps all of them.
func NewSnapshotService(repo repository.Repository, eventBus *EventBus, keep int, logger *log.Logger) *SnapshotService {
	if logger == nil {
		logger = log.Default()
	}
	return &SnapshotService{
		repo:     repo,
		eventBus: eventBus,
		keep:     keep,
		logger:   logger,
	}
}

// Record stores doc as a new snapshot of the given session
func (s *SnapshotService) Record(ctx context.Context, sessionID string, doc *domain.Document) (*domain.Snapshot, error) {
	if doc == nil || doc.IsEmpty() {
		return nil, fmt.Errorf("refusing to record an empty document")
	}

	snap := domain.NewSnapshot(uuid.NewString(), sessionID, doc)
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	if n, err := s.repo.PruneSnapshots(ctx, s.keep); err != nil {
		s.logger.Warn("Failed to prune snapshots", "err", err)
	} else if n > 0 {
		s.logger.Debug("Pruned snapshots", "deleted", n)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(Event{
			Type:      EventSnapshotSaved,
			SessionID: sessionID,
			Payload:   map[string]any{"id": snap.ID, "nodes": snap.NodeCount},
		})
	}
	return snap, nil
}

// Get returns a snapshot with its document
func (s *SnapshotService) Get(ctx context.Context, id string) (*domain.Snapshot, error) {
	snap, err := s.repo.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return snap, nil
}

// Latest returns the newest snapshot, or nil when there is none
func (s *SnapshotService) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.LatestSnapshot(ctx)
}

// List returns snapshot summaries newest first
func (s *SnapshotService) List(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return s.repo.ListSnapshots(ctx, limit)
}

// Delete removes a snapshot
func (s *SnapshotService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSnapshot(ctx, id)
}

// Consume records every exported document published on events until ctx
// is done or events is closed.
func (s *SnapshotService) Consume(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != EventDocumentExported {
				continue
			}
			payload, ok := ev.Payload.(ExportPayload)
			if !ok || payload.Document == nil {
				continue
			}
			if _, err := s.Record(ctx, ev.SessionID, payload.Document); err != nil {
				s.logger.Error("Failed to record snapshot", "session", ev.SessionID, "err", err)
			}
		}
	}
}
