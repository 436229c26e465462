package file

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// MetadataCacheStore keeps the metadata cache as a JSON array file.
// The whole file is rewritten after every Put.
type MetadataCacheStore struct {
	mu      sync.Mutex
	path    string
	entries []*domain.MetadataEntry
	byMint  map[string]struct{}
}

// OpenMetadataCacheStore opens path, loading any entries written by a previous run.
// A missing file yields an empty cache.
func OpenMetadataCacheStore(path string) (*MetadataCacheStore, error) {
	s := &MetadataCacheStore{
		path:   path,
		byMint: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(data) == 0 {
		return s, nil
	}

	var entries []*domain.MetadataEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	for _, e := range entries {
		if e == nil || e.Mint == "" {
			continue
		}
		if _, dup := s.byMint[e.Mint]; dup {
			continue
		}
		s.entries = append(s.entries, e)
		s.byMint[e.Mint] = struct{}{}
	}
	return s, nil
}

var _ storage.MetadataCacheStore = (*MetadataCacheStore)(nil)

// Load returns all entries in file order.
func (s *MetadataCacheStore) Load(_ context.Context) ([]*domain.MetadataEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.MetadataEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Contains reports whether an entry for mint is stored.
func (s *MetadataCacheStore) Contains(_ context.Context, mint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.byMint[mint]
	return exists, nil
}

// Put appends an entry and rewrites the file.
func (s *MetadataCacheStore) Put(_ context.Context, e *domain.MetadataEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[e.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	entries := append(s.entries, e)
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return errors.Wrap(err, "write metadata cache")
	}

	s.entries = entries
	s.byMint[e.Mint] = struct{}{}
	return nil
}

// encodeEntries renders the cache array. Entries read from disk are written
// back with their original bytes, whitespace included.
func encodeEntries(entries []*domain.MetadataEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if len(e.Raw) > 0 {
			buf.Write(e.Raw)
			continue
		}
		data, err := storage.MarshalCompact(e)
		if err != nil {
			return nil, errors.Wrapf(err, "encode metadata for %s", e.Mint)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
