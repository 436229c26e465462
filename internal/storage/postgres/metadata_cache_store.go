package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// MetadataCacheStore implements storage.MetadataCacheStore using PostgreSQL.
// The full entry document is kept in the entry column so Load returns the
// same bytes that were stored.
type MetadataCacheStore struct {
	pool *Pool
	now  func() time.Time
}

// NewMetadataCacheStore creates a new MetadataCacheStore.
func NewMetadataCacheStore(pool *Pool) *MetadataCacheStore {
	return &MetadataCacheStore{pool: pool, now: time.Now}
}

// Compile-time interface check.
var _ storage.MetadataCacheStore = (*MetadataCacheStore)(nil)

// Load returns all entries in insertion order.
func (s *MetadataCacheStore) Load(ctx context.Context) ([]*domain.MetadataEntry, error) {
	query := `
		SELECT entry
		FROM token_metadata_cache
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query metadata cache")
	}
	defer rows.Close()

	var entries []*domain.MetadataEntry
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "scan metadata cache row")
		}
		var e domain.MetadataEntry
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, errors.Wrap(err, "decode metadata cache entry")
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate metadata cache")
	}
	return entries, nil
}

// Contains reports whether an entry for mint is stored.
func (s *MetadataCacheStore) Contains(ctx context.Context, mint string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM token_metadata_cache WHERE mint = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, mint).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check metadata cache")
	}
	return exists, nil
}

// Put stores a new entry. Returns ErrDuplicateKey if the mint is already cached.
func (s *MetadataCacheStore) Put(ctx context.Context, e *domain.MetadataEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	doc, err := storage.MarshalCompact(e)
	if err != nil {
		return errors.Wrap(err, "encode metadata cache entry")
	}

	query := `
		INSERT INTO token_metadata_cache (
			mint, name, symbol, uri, seller_fee, has_offchain, entry, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.pool.Exec(ctx, query,
		e.Mint,
		e.TokenData.Name,
		e.TokenData.Symbol,
		e.TokenData.URI,
		int32(e.TokenData.SellerFeeBasisPoints),
		e.HasOffChainMetadata(),
		string(doc),
		s.now().UnixMilli(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return errors.Wrap(err, "insert metadata cache entry")
	}
	return nil
}
