// Package hashlist reads, writes and generates hashlists: JSON arrays of mint addresses.
package hashlist

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"solana-snapshot-kit/internal/solana"
	"solana-snapshot-kit/internal/storage"
)

// ErrEmpty is returned when a hashlist file holds no addresses.
var ErrEmpty = errors.New("hashlist is empty")

// Load reads a hashlist file. Every entry must be a valid address; duplicates
// are dropped, keeping the first occurrence.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read hashlist %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates hashlist JSON.
func Parse(data []byte) ([]string, error) {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, errors.Wrap(err, "parse hashlist")
	}
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	for i, token := range tokens {
		if !solana.IsValidAddress(token) {
			return nil, errors.Wrapf(solana.ErrInvalidAddress, "hashlist entry %d %q", i, token)
		}
	}
	return lo.Uniq(tokens), nil
}

// Save writes tokens as a JSON array.
func Save(path string, tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	data, err := storage.MarshalCompact(tokens)
	if err != nil {
		return errors.Wrap(err, "encode hashlist")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write hashlist %s", path)
	}
	return nil
}
