package postgres

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// HolderSnapshotStore implements storage.HolderSnapshotStore using PostgreSQL.
type HolderSnapshotStore struct {
	pool *Pool
}

// NewHolderSnapshotStore creates a new HolderSnapshotStore.
func NewHolderSnapshotStore(pool *Pool) *HolderSnapshotStore {
	return &HolderSnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.HolderSnapshotStore = (*HolderSnapshotStore)(nil)

// Save writes the snapshot header and all owner rows in one transaction.
// Returns ErrDuplicateKey if the snapshot ID exists.
func (s *HolderSnapshotStore) Save(ctx context.Context, meta storage.SnapshotMeta, snapshot domain.HolderSnapshot) error {
	if meta.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	owners := make([]string, 0, len(snapshot))
	for owner := range snapshot {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	rows := make([][]interface{}, 0, len(owners))
	for _, owner := range owners {
		rec := snapshot[owner]
		mints := rec.Mints
		if mints == nil {
			mints = []string{}
		}
		rows = append(rows, []interface{}{meta.SnapshotID, owner, rec.Amount, mints})
	}

	return s.pool.withTx(ctx, func(tx pgx.Tx) error {
		headerQuery := `
			INSERT INTO holder_snapshots (
				snapshot_id, hashlist_digest, vault, taken_at, total_mints, total_holders
			) VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, headerQuery,
			meta.SnapshotID,
			meta.HashlistDigest,
			meta.Vault,
			meta.TakenAt,
			meta.TotalMints,
			meta.TotalHolders,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return errors.Wrap(err, "insert holder snapshot")
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"holder_snapshot_owners"},
			[]string{"snapshot_id", "owner", "amount", "mints"},
			pgx.CopyFromRows(rows),
		)
		return errors.Wrap(err, "copy holder rows")
	})
}

// Get reads back a stored snapshot. Returns ErrNotFound if the snapshot ID is unknown.
func (s *HolderSnapshotStore) Get(ctx context.Context, snapshotID string) (*storage.SnapshotMeta, domain.HolderSnapshot, error) {
	headerQuery := `
		SELECT snapshot_id, hashlist_digest, vault, taken_at, total_mints, total_holders
		FROM holder_snapshots
		WHERE snapshot_id = $1
	`
	var meta storage.SnapshotMeta
	err := s.pool.QueryRow(ctx, headerQuery, snapshotID).Scan(
		&meta.SnapshotID,
		&meta.HashlistDigest,
		&meta.Vault,
		&meta.TakenAt,
		&meta.TotalMints,
		&meta.TotalHolders,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil, storage.ErrNotFound
		}
		return nil, nil, errors.Wrap(err, "get holder snapshot")
	}

	ownerQuery := `
		SELECT owner, amount, mints
		FROM holder_snapshot_owners
		WHERE snapshot_id = $1
		ORDER BY owner
	`
	rows, err := s.pool.Query(ctx, ownerQuery, snapshotID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "query holder snapshot owners")
	}
	defer rows.Close()

	snapshot := make(domain.HolderSnapshot)
	for rows.Next() {
		var owner string
		rec := &domain.OwnershipRecord{}
		if err := rows.Scan(&owner, &rec.Amount, &rec.Mints); err != nil {
			return nil, nil, errors.Wrap(err, "scan holder snapshot owner")
		}
		snapshot[owner] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "iterate holder snapshot owners")
	}
	return &meta, snapshot, nil
}
