package file

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/storage"
)

// MinterRecordStore appends minter rows to a CSV file, syncing after every row.
type MinterRecordStore struct {
	mu     sync.Mutex
	f      *os.File
	tokens map[string]struct{}
}

// OpenMinterRecordStore opens the CSV at path. With resume set, rows from a
// previous run are kept and their tokens reported by Contains; otherwise the
// file is truncated and a fresh header written.
func OpenMinterRecordStore(path string, resume bool) (*MinterRecordStore, error) {
	s := &MinterRecordStore{tokens: make(map[string]struct{})}

	if resume {
		existing, size, err := readMinterTokens(path)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Drop a row cut short by an interrupted run.
			if err := os.Truncate(path, size); err != nil {
				return nil, errors.Wrapf(err, "truncate %s", path)
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, errors.Wrapf(err, "open %s", path)
			}
			s.f = f
			s.tokens = existing
			return s, nil
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	if _, err := f.WriteString(reporting.MinterCSVHeader); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "write csv header")
	}
	s.f = f
	return s, nil
}

// minterCSVFields is the number of columns in every row.
const minterCSVFields = 5

// readMinterTokens returns the tokens of the complete rows in the CSV and the
// byte length of those rows including the header. A trailing line without a
// newline is not counted. It returns nil tokens if the file does not exist or
// holds no complete header.
func readMinterTokens(path string) (map[string]struct{}, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, errors.Wrapf(err, "read %s", path)
	}

	end := bytes.LastIndexByte(data, '\n') + 1
	if end == 0 {
		return nil, 0, nil
	}

	tokens := make(map[string]struct{})
	lines := strings.Split(string(data[:end-1]), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if i == 0 && strings.HasPrefix(line, "Token Address") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != minterCSVFields || fields[0] == "" {
			continue
		}
		tokens[fields[0]] = struct{}{}
	}
	return tokens, int64(end), nil
}

var _ storage.MinterRecordStore = (*MinterRecordStore)(nil)

// Append writes one row and syncs it to disk.
func (s *MinterRecordStore) Append(_ context.Context, r *domain.MinterRecord) error {
	if r == nil || r.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[r.Token]; exists {
		return storage.ErrDuplicateKey
	}

	if _, err := s.f.WriteString(reporting.RenderMinterRow(r)); err != nil {
		return errors.Wrap(err, "write csv row")
	}
	if err := s.f.Sync(); err != nil {
		return errors.Wrap(err, "sync csv")
	}
	s.tokens[r.Token] = struct{}{}
	return nil
}

// Contains reports whether token already has a row.
func (s *MinterRecordStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.tokens[token]
	return exists, nil
}

// Close closes the underlying file.
func (s *MinterRecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
