package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
	chstore "solana-snapshot-kit/internal/storage/clickhouse"
)

func TestMinterRecordStore_AppendAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewMinterRecordStore(conn, "run-1")

	withMeta := &domain.MinterRecord{
		Token:             "TokenA",
		Minter:            "MinterA",
		MintPriceLamports: ptr(int64(1_500_000_000)),
		BlockTime:         ptr(int64(1700000000)),
		MintSignature:     "sigA",
	}
	withoutMeta := &domain.MinterRecord{
		Token:         "TokenB",
		Minter:        "MinterB",
		MintSignature: "sigB",
	}

	require.NoError(t, store.Append(ctx, withMeta))
	require.NoError(t, store.Append(ctx, withoutMeta))

	records, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, withMeta, records[0])
	assert.Equal(t, withoutMeta, records[1])
}

func TestMinterRecordStore_AppendDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewMinterRecordStore(conn, "run-dup")

	r := &domain.MinterRecord{Token: "TokenA", Minter: "MinterA", MintSignature: "sig"}
	require.NoError(t, store.Append(ctx, r))

	err := store.Append(ctx, r)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestMinterRecordStore_ContainsScopedToRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first := chstore.NewMinterRecordStore(conn, "run-a")
	second := chstore.NewMinterRecordStore(conn, "run-b")

	require.NoError(t, first.Append(ctx, &domain.MinterRecord{Token: "TokenA", Minter: "M", MintSignature: "s"}))

	ok, err := first.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.False(t, ok)
}
