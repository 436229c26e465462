package memory

import (
	"context"
	"sync"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// MetadataCacheStore is an in-memory implementation of storage.MetadataCacheStore.
type MetadataCacheStore struct {
	mu      sync.RWMutex
	entries []*domain.MetadataEntry          // insertion order
	byMint  map[string]*domain.MetadataEntry // keyed by mint (unique)
}

// NewMetadataCacheStore creates a new in-memory metadata cache store.
func NewMetadataCacheStore() *MetadataCacheStore {
	return &MetadataCacheStore{
		byMint: make(map[string]*domain.MetadataEntry),
	}
}

var _ storage.MetadataCacheStore = (*MetadataCacheStore)(nil)

// Load returns copies of all entries in insertion order.
func (s *MetadataCacheStore) Load(_ context.Context) ([]*domain.MetadataEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MetadataEntry, len(s.entries))
	for i, e := range s.entries {
		entryCopy := *e
		out[i] = &entryCopy
	}
	return out, nil
}

// Contains reports whether an entry for mint is stored.
func (s *MetadataCacheStore) Contains(_ context.Context, mint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byMint[mint]
	return exists, nil
}

// Put stores a new entry. Returns ErrDuplicateKey if the mint exists.
func (s *MetadataCacheStore) Put(_ context.Context, e *domain.MetadataEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[e.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	entryCopy := *e
	s.entries = append(s.entries, &entryCopy)
	s.byMint[e.Mint] = &entryCopy
	return nil
}
