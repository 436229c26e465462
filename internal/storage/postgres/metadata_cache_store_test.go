package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
	pgstore "solana-snapshot-kit/internal/storage/postgres"
)

func TestMetadataCacheStore_PutAndLoad(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	first := &domain.MetadataEntry{
		Mint: "MintOne",
		TokenData: domain.TokenData{
			Name:   "Gib #1",
			Symbol: "GIB",
			URI:    "https://arweave.net/one",
		},
		Metadata: json.RawMessage(`{"name":"Gib #1","image":"https://arweave.net/one.png"}`),
	}
	second := &domain.MetadataEntry{
		Mint:      "MintTwo",
		TokenData: domain.TokenData{Name: "Gib #2", Symbol: "GIB"},
	}

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "MintOne", entries[0].Mint)
	assert.Equal(t, "MintTwo", entries[1].Mint)
	assert.True(t, entries[0].HasOffChainMetadata())
	assert.False(t, entries[1].HasOffChainMetadata())

	want, err := storage.MarshalCompact(first)
	require.NoError(t, err)
	got, err := storage.MarshalCompact(entries[0])
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestMetadataCacheStore_Contains(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	ok, err := store.Contains(ctx, "MintOne")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, &domain.MetadataEntry{Mint: "MintOne"}))

	ok, err = store.Contains(ctx, "MintOne")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMetadataCacheStore_PutDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	require.NoError(t, store.Put(ctx, &domain.MetadataEntry{Mint: "MintDup"}))

	err := store.Put(ctx, &domain.MetadataEntry{Mint: "MintDup"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
