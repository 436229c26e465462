package memory

import (
	"context"
	"sync"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// HolderSnapshotStore is an in-memory implementation of storage.HolderSnapshotStore.
type HolderSnapshotStore struct {
	mu        sync.RWMutex
	meta      map[string]storage.SnapshotMeta
	snapshots map[string]domain.HolderSnapshot
}

// NewHolderSnapshotStore creates a new in-memory holder snapshot store.
func NewHolderSnapshotStore() *HolderSnapshotStore {
	return &HolderSnapshotStore{
		meta:      make(map[string]storage.SnapshotMeta),
		snapshots: make(map[string]domain.HolderSnapshot),
	}
}

var _ storage.HolderSnapshotStore = (*HolderSnapshotStore)(nil)

// Save stores a deep copy of the snapshot.
func (s *HolderSnapshotStore) Save(_ context.Context, meta storage.SnapshotMeta, snapshot domain.HolderSnapshot) error {
	if meta.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.meta[meta.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	s.meta[meta.SnapshotID] = meta
	s.snapshots[meta.SnapshotID] = copySnapshot(snapshot)
	return nil
}

// Get returns a stored snapshot. Returns ErrNotFound if not exists.
func (s *HolderSnapshotStore) Get(_ context.Context, snapshotID string) (storage.SnapshotMeta, domain.HolderSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, exists := s.meta[snapshotID]
	if !exists {
		return storage.SnapshotMeta{}, nil, storage.ErrNotFound
	}
	return meta, copySnapshot(s.snapshots[snapshotID]), nil
}

func copySnapshot(in domain.HolderSnapshot) domain.HolderSnapshot {
	out := make(domain.HolderSnapshot, len(in))
	for owner, r := range in {
		out[owner] = &domain.OwnershipRecord{
			Amount: r.Amount,
			Mints:  append([]string(nil), r.Mints...),
		}
	}
	return out
}
