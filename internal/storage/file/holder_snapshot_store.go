package file

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// HolderSnapshotStore writes the snapshot as a JSON object owner -> {amount, mints}.
// Each Save overwrites the file; only the latest snapshot is kept.
type HolderSnapshotStore struct {
	path string
}

// NewHolderSnapshotStore creates a store writing to path.
func NewHolderSnapshotStore(path string) *HolderSnapshotStore {
	return &HolderSnapshotStore{path: path}
}

var _ storage.HolderSnapshotStore = (*HolderSnapshotStore)(nil)

// Save writes the snapshot file.
func (s *HolderSnapshotStore) Save(_ context.Context, _ storage.SnapshotMeta, snapshot domain.HolderSnapshot) error {
	if snapshot == nil {
		snapshot = domain.HolderSnapshot{}
	}
	data, err := storage.MarshalCompact(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode holder snapshot")
	}
	return writeFileAtomic(s.path, data)
}

// ReadHolderSnapshot reads a snapshot file written by Save.
func ReadHolderSnapshot(path string) (domain.HolderSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var snapshot domain.HolderSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return snapshot, nil
}
