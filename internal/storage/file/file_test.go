package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/storage"
)

func TestMetadataCacheStore_MissingFileIsEmpty(t *testing.T) {
	store, err := OpenMetadataCacheStore(filepath.Join(t.TempDir(), DefaultMetadataPath))
	require.NoError(t, err)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMetadataCacheStore_PutPersistsAndReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMetadataPath)

	store, err := OpenMetadataCacheStore(path)
	require.NoError(t, err)

	entry := &domain.MetadataEntry{
		TokenData: domain.TokenData{Name: "Gib #1", Symbol: "GIB", URI: "https://example.com/1.json"},
		Metadata:  json.RawMessage(`{"name":"Gib #1"}`),
		Mint:      "TokenA",
	}
	require.NoError(t, store.Put(ctx, entry))

	err = store.Put(ctx, entry)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))

	reopened, err := OpenMetadataCacheStore(path)
	require.NoError(t, err)

	ok, err := reopened.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Gib #1", entries[0].TokenData.Name)
	assert.JSONEq(t, `{"name":"Gib #1"}`, string(entries[0].Metadata))
}

func TestMetadataCacheStore_KeepsForeignEntryBytes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMetadataPath)

	// Key order differs from what this package would write.
	original := `{"mint":"TokenA","metadata":{"b":1,"a":2},"tokenData":{"name":"A","symbol":"","uri":"","sellerFeeBasisPoints":0,"creators":[]}}`
	require.NoError(t, os.WriteFile(path, []byte("["+original+"]"), 0o644))

	store, err := OpenMetadataCacheStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, &domain.MetadataEntry{Mint: "TokenB"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "["+original+","), string(data))
	assert.Contains(t, string(data), `"metadata":null,"mint":"TokenB"`)
}

func TestMetadataCacheStore_KeepsPrettyPrintedEntryBytes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMetadataPath)

	original := "{\n  \"tokenData\": {\"name\": \"A\"},\n  \"metadata\": {\"image\": \"<a&b>\"},\n  \"mint\": \"TokenA\"\n}"
	require.NoError(t, os.WriteFile(path, []byte("[\n"+original+"\n]"), 0o644))

	store, err := OpenMetadataCacheStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, &domain.MetadataEntry{Mint: "TokenB"}))
	require.NoError(t, store.Put(ctx, &domain.MetadataEntry{Mint: "TokenC"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), original)

	var entries []*domain.MetadataEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"TokenA", "TokenB", "TokenC"},
		[]string{entries[0].Mint, entries[1].Mint, entries[2].Mint})
}

func TestMetadataCacheStore_RejectsInvalidEntry(t *testing.T) {
	store, err := OpenMetadataCacheStore(filepath.Join(t.TempDir(), DefaultMetadataPath))
	require.NoError(t, err)

	err = store.Put(context.Background(), &domain.MetadataEntry{})
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}

func TestMetadataCacheStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultMetadataPath)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenMetadataCacheStore(path)
	assert.Error(t, err)
}

func TestHolderSnapshotStore_SaveAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultHoldersPath)
	store := NewHolderSnapshotStore(path)

	snap := domain.HolderSnapshot{
		"OwnerX": {Amount: 2, Mints: []string{"TokenA", "TokenB"}},
	}
	require.NoError(t, store.Save(context.Background(), storage.SnapshotMeta{}, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"OwnerX":{"amount":2,"mints":["TokenA","TokenB"]}}`, string(data))

	got, err := ReadHolderSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestHolderSnapshotStore_EmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultHoldersPath)
	require.NoError(t, NewHolderSnapshotStore(path).Save(context.Background(), storage.SnapshotMeta{}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func minterRecord(token string) *domain.MinterRecord {
	price := int64(1_000_000_000)
	blockTime := int64(1_700_000_000)
	return &domain.MinterRecord{
		Token:             token,
		Minter:            "MinterM",
		MintPriceLamports: &price,
		BlockTime:         &blockTime,
		MintSignature:     "sig-" + token,
	}
}

func TestMinterRecordStore_AppendWritesRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMintersPath)

	store, err := OpenMinterRecordStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, minterRecord("TokenA")))

	err = store.Append(ctx, minterRecord("TokenA"))
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, reporting.MinterCSVHeader+reporting.RenderMinterRow(minterRecord("TokenA")), string(data))
}

func TestMinterRecordStore_Resume(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMintersPath)

	first, err := OpenMinterRecordStore(path, false)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, minterRecord("TokenA")))
	require.NoError(t, first.Close())

	resumed, err := OpenMinterRecordStore(path, true)
	require.NoError(t, err)

	ok, err := resumed.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, resumed.Append(ctx, minterRecord("TokenB")))
	require.NoError(t, resumed.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "TokenA,"))
	assert.True(t, strings.HasPrefix(lines[2], "TokenB,"))
}

func TestMinterRecordStore_ResumeDropsPartialRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMintersPath)

	complete := reporting.MinterCSVHeader + reporting.RenderMinterRow(minterRecord("TokenA"))
	require.NoError(t, os.WriteFile(path, []byte(complete+"TokenB,Min"), 0o644))

	resumed, err := OpenMinterRecordStore(path, true)
	require.NoError(t, err)

	ok, err := resumed.Contains(ctx, "TokenB")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = resumed.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, resumed.Append(ctx, minterRecord("TokenB")))
	require.NoError(t, resumed.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, complete+reporting.RenderMinterRow(minterRecord("TokenB")), string(data))
}

func TestMinterRecordStore_ResumeIgnoresMalformedRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMintersPath)

	require.NoError(t, os.WriteFile(path, []byte(reporting.MinterCSVHeader+"TokenX,only,three\n"), 0o644))

	resumed, err := OpenMinterRecordStore(path, true)
	require.NoError(t, err)
	defer resumed.Close()

	ok, err := resumed.Contains(ctx, "TokenX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMinterRecordStore_NoResumeTruncates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultMintersPath)

	first, err := OpenMinterRecordStore(path, false)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, minterRecord("TokenA")))
	require.NoError(t, first.Close())

	fresh, err := OpenMinterRecordStore(path, false)
	require.NoError(t, err)
	defer fresh.Close()

	ok, err := fresh.Contains(ctx, "TokenA")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, reporting.MinterCSVHeader, string(data))
}
