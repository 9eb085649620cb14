package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"flowdesk/internal/codec"
	"flowdesk/internal/domain"
)

// DocumentService owns the document a new editor page starts with
type DocumentService struct {
	path          string
	restoreLatest bool
	snapshots     *SnapshotService
	eventBus      *EventBus

	mu    sync.RWMutex
	cache *domain.Document
}

// NewDocumentService creates a document service. path may be empty, in which
// case pages start empty unless restoreLatest finds a snapshot.
func NewDocumentService(path string, restoreLatest bool, snapshots *SnapshotService, eventBus *EventBus) *DocumentService {
	return &DocumentService{
		path:          path,
		restoreLatest: restoreLatest,
		snapshots:     snapshots,
		eventBus:      eventBus,
	}
}

// Path returns the initial document file, if any
func (s *DocumentService) Path() string {
	return s.path
}

// Load reads the initial document file. A missing file is not an error and
// leaves the editor empty.
func (s *DocumentService) Load(ctx context.Context) error {
	doc, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = doc
	s.mu.Unlock()

	if doc != nil {
		s.publish(Event{Type: EventDocumentLoaded, Payload: map[string]any{"path": s.path, "nodes": doc.NodeCount()}})
	}
	return nil
}

// Reload rereads the initial document file and returns it. An invalid file
// keeps the previous document.
func (s *DocumentService) Reload(ctx context.Context) (*domain.Document, error) {
	doc, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cache = doc
	s.mu.Unlock()

	nodes := 0
	if doc != nil {
		nodes = doc.NodeCount()
	}
	s.publish(Event{Type: EventDocumentReloaded, Payload: map[string]any{"path": s.path, "nodes": nodes}})
	return doc, nil
}

// Initial returns the document a new page starts with: the latest snapshot
// when restoring is enabled and one exists, otherwise the initial file. Nil
// means an empty editor.
func (s *DocumentService) Initial(ctx context.Context) (*domain.Document, error) {
	if s.restoreLatest && s.snapshots != nil {
		snap, err := s.snapshots.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if snap != nil && snap.Document != nil {
			return snap.Document.Clone()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.Clone()
}

func (s *DocumentService) read() (*domain.Document, error) {
	if s.path == "" {
		return nil, nil
	}

	doc, err := codec.ParseFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) publish(ev Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ev)
	}
}
