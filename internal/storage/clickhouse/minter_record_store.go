package clickhouse

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/storage"
)

// MinterRecordStore implements storage.MinterRecordStore using ClickHouse.
// Rows are tagged with the run that produced them; Contains only looks at rows
// from the same run so a fresh run re-attributes every token.
type MinterRecordStore struct {
	conn  *Conn
	runID string

	mu sync.Mutex
}

// NewMinterRecordStore creates a new MinterRecordStore writing rows under runID.
func NewMinterRecordStore(conn *Conn, runID string) *MinterRecordStore {
	return &MinterRecordStore{conn: conn, runID: runID}
}

// Compile-time interface check.
var _ storage.MinterRecordStore = (*MinterRecordStore)(nil)

// Append adds a record. Returns ErrDuplicateKey if the token already has a row in this run.
func (s *MinterRecordStore) Append(ctx context.Context, r *domain.MinterRecord) error {
	if r == nil || r.Token == "" {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness; serialize the check and insert.
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Contains(ctx, r.Token)
	if err != nil {
		return errors.Wrap(err, "check exists")
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO minter_records (
			token, minter, mint_price_lamports, block_time, mint_signature, run_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		r.Token,
		r.Minter,
		r.MintPriceLamports,
		r.BlockTime,
		r.MintSignature,
		s.runID,
	)
	if err != nil {
		return errors.Wrap(err, "insert minter record")
	}
	return nil
}

// Contains reports whether token already has a row in this run.
func (s *MinterRecordStore) Contains(ctx context.Context, token string) (bool, error) {
	query := `SELECT count() FROM minter_records WHERE run_id = ? AND token = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, s.runID, token).Scan(&count); err != nil {
		return false, errors.Wrap(err, "count minter records")
	}
	return count > 0, nil
}

// GetByRun returns all rows of a run ordered by token.
func (s *MinterRecordStore) GetByRun(ctx context.Context, runID string) ([]*domain.MinterRecord, error) {
	query := `
		SELECT token, minter, mint_price_lamports, block_time, mint_signature
		FROM minter_records
		WHERE run_id = ?
		ORDER BY token
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query minter records")
	}
	defer rows.Close()

	var out []*domain.MinterRecord
	for rows.Next() {
		var r domain.MinterRecord
		if err := rows.Scan(&r.Token, &r.Minter, &r.MintPriceLamports, &r.BlockTime, &r.MintSignature); err != nil {
			return nil, errors.Wrap(err, "scan minter record")
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate minter records")
	}
	return out, nil
}
