package snapshot

import (
	"sync"

	"solana-snapshot-kit/internal/domain"
)

// Accumulator builds the owner -> record mapping one resolved token at a time.
type Accumulator struct {
	mu      sync.Mutex
	records domain.HolderSnapshot
	seen    map[string]struct{}
	mints   int
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		records: make(domain.HolderSnapshot),
		seen:    make(map[string]struct{}),
	}
}

// Add credits token to owner. A token already credited is ignored and Add
// returns false, so every token lands in exactly one record.
func (a *Accumulator) Add(owner, token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, dup := a.seen[token]; dup {
		return false
	}
	a.seen[token] = struct{}{}

	rec, ok := a.records[owner]
	if !ok {
		rec = &domain.OwnershipRecord{}
		a.records[owner] = rec
	}
	rec.Amount++
	rec.Mints = append(rec.Mints, token)
	a.mints++
	return true
}

// TotalMints is the number of tokens credited so far.
func (a *Accumulator) TotalMints() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mints
}

// TotalHolders is the number of distinct owners so far.
func (a *Accumulator) TotalHolders() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Snapshot returns a deep copy of the current mapping.
func (a *Accumulator) Snapshot() domain.HolderSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(domain.HolderSnapshot, len(a.records))
	for owner, rec := range a.records {
		out[owner] = &domain.OwnershipRecord{
			Amount: rec.Amount,
			Mints:  append([]string(nil), rec.Mints...),
		}
	}
	return out
}
