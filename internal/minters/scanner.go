// Package minters attributes each token to the wallet that minted it: the fee
// payer of the token's earliest finalized transaction.
package minters

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/solana"
	"solana-snapshot-kit/internal/storage"
)

var (
	// ErrNoFinalized is returned when a token has no finalized transactions.
	ErrNoFinalized = errors.New("no finalized transactions")

	// ErrNotMintTx is returned when the earliest transaction does not reference the token.
	ErrNotMintTx = errors.New("earliest transaction does not reference token")
)

// Scanner produces one MinterRecord per token.
type Scanner struct {
	rpc    solana.RPCClient
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewScanner creates a scanner using the wall clock.
func NewScanner(rpc solana.RPCClient, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scanner{rpc: rpc, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to rank signatures that lack a block time.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Attribute finds the mint transaction of token and builds its record.
func (s *Scanner) Attribute(ctx context.Context, token string) (*domain.MinterRecord, error) {
	sigs, err := solana.GetAllSignaturesForAddress(ctx, s.rpc, token)
	if err != nil {
		return nil, pipeline.Skip(pipeline.StageFetch, err)
	}

	finalized := lo.Filter(sigs, func(sig solana.SignatureInfo, _ int) bool {
		return sig.Finalized()
	})
	if len(finalized) == 0 {
		return nil, pipeline.Skip(pipeline.StageFilter, ErrNoFinalized)
	}

	// A missing block time counts as the current time. Ties go to the entry
	// listed last, which the node returns as the oldest.
	now := s.now().Unix()
	earliest := lo.MinBy(finalized, func(a, b solana.SignatureInfo) bool {
		return blockTimeOr(a.BlockTime, now) <= blockTimeOr(b.BlockTime, now)
	})

	tx, err := s.rpc.GetTransaction(ctx, earliest.Signature)
	if err != nil {
		return nil, pipeline.Skip(pipeline.StageFetch, errors.Wrapf(err, "get transaction %s", earliest.Signature))
	}
	if tx == nil {
		return nil, pipeline.Skip(pipeline.StageFetch, errors.Newf("transaction %s not found", earliest.Signature))
	}
	if !tx.References(token) {
		return nil, pipeline.Skip(pipeline.StageFilter, errors.Wrapf(ErrNotMintTx, "signature %s", earliest.Signature))
	}
	minter, ok := tx.FeePayer()
	if !ok {
		return nil, pipeline.Skip(pipeline.StageDecode, errors.Newf("transaction %s has no account keys", earliest.Signature))
	}

	record := &domain.MinterRecord{
		Token:         token,
		Minter:        minter,
		BlockTime:     tx.BlockTime,
		MintSignature: earliest.Signature,
	}
	if price, ok := feePayerSpend(tx); ok {
		record.MintPriceLamports = &price
	}
	return record, nil
}

// Run attributes every token not already present in the first sink and
// appends each record to all sinks as soon as it is emitted.
func (s *Scanner) Run(ctx context.Context, tokens []string, opts pipeline.Options,
	sinks ...storage.MinterRecordStore) (*pipeline.Summary, error) {
	if len(sinks) == 0 {
		return nil, errors.New("minters: no record sink")
	}

	pending, err := s.pending(ctx, tokens, sinks[0])
	if err != nil {
		return nil, err
	}
	if done := len(tokens) - len(pending); done > 0 {
		s.logger.WithField("count", done).Info("skipping tokens already attributed")
	}
	opts.Progress.SetTotal(len(pending))

	return pipeline.Run(ctx, pending, opts, s.Attribute,
		func(ctx context.Context, r pipeline.Result[*domain.MinterRecord]) error {
			if r.Skipped() {
				entry := s.logger.WithFields(logrus.Fields{"token": r.Token, "stage": r.Skip.Stage})
				if errors.Is(r.Skip.Err, ErrNoFinalized) {
					entry.Info("no finalized transactions")
				} else {
					entry.WithError(r.Skip.Err).Warn("skipping token")
				}
				return nil
			}
			for i, sink := range sinks {
				err := sink.Append(ctx, r.Value)
				if err == nil {
					continue
				}
				if i > 0 && errors.Is(err, storage.ErrDuplicateKey) {
					continue
				}
				return pipeline.Fatal(errors.Wrapf(err, "append minter record for %s", r.Token))
			}
			return nil
		})
}

func (s *Scanner) pending(ctx context.Context, tokens []string, sink storage.MinterRecordStore) ([]string, error) {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		exists, err := sink.Contains(ctx, token)
		if err != nil {
			return nil, errors.Wrap(err, "check minter records")
		}
		if !exists {
			out = append(out, token)
		}
	}
	return out, nil
}

// feePayerSpend is the fee payer's lamport balance drop across the transaction.
func feePayerSpend(tx *solana.Transaction) (int64, bool) {
	if tx.Meta == nil || len(tx.Meta.PreBalances) == 0 || len(tx.Meta.PostBalances) == 0 {
		return 0, false
	}
	return int64(tx.Meta.PreBalances[0]) - int64(tx.Meta.PostBalances[0]), true
}

func blockTimeOr(t *int64, fallback int64) int64 {
	if t == nil {
		return fallback
	}
	return *t
}
