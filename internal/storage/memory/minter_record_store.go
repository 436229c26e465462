package memory

import (
	"context"
	"sync"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// MinterRecordStore is an in-memory implementation of storage.MinterRecordStore.
type MinterRecordStore struct {
	mu      sync.RWMutex
	records []*domain.MinterRecord
	byToken map[string]struct{}
}

// NewMinterRecordStore creates a new in-memory minter record store.
func NewMinterRecordStore() *MinterRecordStore {
	return &MinterRecordStore{
		byToken: make(map[string]struct{}),
	}
}

var _ storage.MinterRecordStore = (*MinterRecordStore)(nil)

// Append adds a record. Returns ErrDuplicateKey if the token already has a row.
func (s *MinterRecordStore) Append(_ context.Context, r *domain.MinterRecord) error {
	if r == nil || r.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byToken[r.Token]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.records = append(s.records, &recordCopy)
	s.byToken[r.Token] = struct{}{}
	return nil
}

// Contains reports whether token already has a row.
func (s *MinterRecordStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byToken[token]
	return exists, nil
}

// All returns copies of all records in append order.
func (s *MinterRecordStore) All() []*domain.MinterRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MinterRecord, len(s.records))
	for i, r := range s.records {
		recordCopy := *r
		out[i] = &recordCopy
	}
	return out
}
