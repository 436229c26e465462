package storage

import (
	"context"

	"solana-snapshot-kit/internal/domain"
)

// MetadataCacheStore persists metadata cache entries keyed by mint.
// Put must be durable on return: the cache is resumed from whatever was stored.
type MetadataCacheStore interface {
	// Load returns all stored entries in insertion order.
	Load(ctx context.Context) ([]*domain.MetadataEntry, error)

	// Contains reports whether an entry for mint is stored.
	Contains(ctx context.Context, mint string) (bool, error)

	// Put stores a new entry. Returns ErrDuplicateKey if the mint is already stored.
	Put(ctx context.Context, e *domain.MetadataEntry) error
}

// HolderSnapshotStore persists completed holder snapshots.
type HolderSnapshotStore interface {
	// Save writes a whole snapshot. Returns ErrDuplicateKey if the snapshot ID exists.
	Save(ctx context.Context, meta SnapshotMeta, snapshot domain.HolderSnapshot) error
}

// SnapshotMeta identifies one holder snapshot run.
type SnapshotMeta struct {
	SnapshotID     string
	HashlistDigest string
	Vault          string // empty when no custody rule was configured
	TakenAt        int64  // unix ms
	TotalMints     int
	TotalHolders   int
}

// MinterRecordStore is an append-only sink for minter attribution rows.
type MinterRecordStore interface {
	// Append adds one record. Returns ErrDuplicateKey if the token already has a row.
	Append(ctx context.Context, r *domain.MinterRecord) error

	// Contains reports whether token already has a row.
	Contains(ctx context.Context, token string) (bool, error)
}
