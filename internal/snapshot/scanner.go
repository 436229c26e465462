// Package snapshot resolves the current owner of every token in a hashlist and
// aggregates them into a holder snapshot.
package snapshot

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"solana-snapshot-kit/internal/custody"
	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/solana"
	"solana-snapshot-kit/internal/storage"
)

// ErrNoHolder is returned when a mint has no token accounts.
var ErrNoHolder = errors.New("no token accounts")

// Scanner looks up the holder of each token.
type Scanner struct {
	rpc      solana.RPCClient
	resolver *custody.Resolver
	logger   logrus.FieldLogger
}

// NewScanner creates a scanner. resolver may be nil for no custody resolution.
func NewScanner(rpc solana.RPCClient, resolver *custody.Resolver, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if resolver == nil {
		resolver = custody.NewResolver(rpc, "", logger)
	}
	return &Scanner{rpc: rpc, resolver: resolver, logger: logger}
}

// Lookup finds the effective owner of token: the owner of its largest token
// account, re-resolved through the custody vault when one is configured.
func (s *Scanner) Lookup(ctx context.Context, token string) (domain.TokenOwnership, error) {
	balances, err := s.rpc.GetTokenLargestAccounts(ctx, token)
	if err != nil {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageFetch, errors.Wrap(err, "get largest accounts"))
	}
	if len(balances) == 0 {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageFetch, ErrNoHolder)
	}

	largest := lo.MaxBy(balances, func(a, b solana.TokenAccountBalance) bool {
		return uiAmount(a) > uiAmount(b)
	})

	info, err := s.rpc.GetAccountInfo(ctx, largest.Address)
	if err != nil {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageFetch, errors.Wrapf(err, "get token account %s", largest.Address))
	}
	data, err := info.DecodeData()
	if err != nil {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageDecode, errors.Wrapf(err, "token account %s", largest.Address))
	}
	account, err := solana.DecodeTokenAccount(data)
	if err != nil {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageDecode, errors.Wrapf(err, "token account %s", largest.Address))
	}
	if account.Mint != token {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageDecode,
			errors.Wrapf(solana.ErrInvalidAccountData, "token account %s holds mint %s", largest.Address, account.Mint))
	}

	owner, err := s.resolver.Resolve(ctx, token, account.Owner)
	if err != nil {
		return domain.TokenOwnership{}, pipeline.Skip(pipeline.StageCustody, err)
	}

	return domain.TokenOwnership{
		Mint:           token,
		TokenAccount:   largest.Address,
		NominalOwner:   account.Owner,
		EffectiveOwner: owner,
	}, nil
}

// Run looks up every token and returns the accumulated snapshot.
// emit, when non-nil, sees every result in hashlist order after it was accumulated.
func (s *Scanner) Run(ctx context.Context, tokens []string, opts pipeline.Options,
	emit pipeline.EmitFunc[domain.TokenOwnership]) (*Accumulator, *pipeline.Summary, error) {
	acc := NewAccumulator()

	summary, err := pipeline.Run(ctx, tokens, opts, s.Lookup,
		func(ctx context.Context, r pipeline.Result[domain.TokenOwnership]) error {
			if r.Skipped() {
				s.logger.WithFields(logrus.Fields{
					"token": r.Token,
					"stage": r.Skip.Stage,
				}).WithError(r.Skip.Err).Warn("skipping token")
			} else {
				acc.Add(r.Value.EffectiveOwner, r.Token)
				if r.Value.Custodial() {
					s.logger.WithFields(logrus.Fields{
						"token": r.Token,
						"owner": r.Value.EffectiveOwner,
					}).Debug("credited custodial token to depositor")
				}
			}
			if emit != nil {
				return emit(ctx, r)
			}
			return nil
		})
	return acc, summary, err
}

// Save writes snap to every store, stopping at the first failure.
func Save(ctx context.Context, meta storage.SnapshotMeta, snap domain.HolderSnapshot, stores ...storage.HolderSnapshotStore) error {
	for _, store := range stores {
		if err := store.Save(ctx, meta, snap); err != nil {
			return errors.Wrap(err, "save holder snapshot")
		}
	}
	return nil
}

// uiAmount returns the display amount of a balance, 0 when the node omitted it.
func uiAmount(b solana.TokenAccountBalance) float64 {
	if b.UIAmount != nil {
		return *b.UIAmount
	}
	if v, err := strconv.ParseFloat(b.UIAmountString, 64); err == nil {
		return v
	}
	return 0
}
