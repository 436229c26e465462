// Package custody resolves the effective owner of tokens parked in a custodial
// vault, such as a staking program's escrow wallet.
package custody

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"solana-snapshot-kit/internal/solana"
)

// ErrUnresolved is returned when a vault-held token cannot be attributed to a depositor.
var ErrUnresolved = errors.New("custody owner unresolved")

// Resolver maps a nominal owner to the effective owner.
// With no vault configured it is the identity function.
type Resolver struct {
	vault  string
	rpc    solana.RPCClient
	logger logrus.FieldLogger
}

// NewResolver creates a resolver for vault. An empty vault disables custody resolution.
func NewResolver(rpc solana.RPCClient, vault string, logger logrus.FieldLogger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{vault: vault, rpc: rpc, logger: logger}
}

// Vault returns the configured vault address, or "".
func (r *Resolver) Vault() string {
	return r.vault
}

// Resolve returns the effective owner of token.
//
// When nominal is the vault, the depositor is taken to be the fee payer of the
// most recent error-free transaction on the vault's associated token account
// for token. A signature without a block time ranks below any with one.
func (r *Resolver) Resolve(ctx context.Context, token, nominal string) (string, error) {
	if r.vault == "" || nominal != r.vault {
		return nominal, nil
	}

	custodyAccount, err := solana.FindAssociatedTokenAddress(r.vault, token)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "derive custody account"), ErrUnresolved)
	}

	sigs, err := solana.GetAllSignaturesForAddress(ctx, r.rpc, custodyAccount)
	if err != nil {
		return "", errors.Mark(err, ErrUnresolved)
	}

	candidates := lo.Filter(sigs, func(s solana.SignatureInfo, _ int) bool {
		return s.Err == nil
	})
	if len(candidates) == 0 {
		return "", errors.Wrapf(ErrUnresolved, "no successful transactions on %s", custodyAccount)
	}

	latest := lo.MaxBy(candidates, func(a, b solana.SignatureInfo) bool {
		return blockTime(a) > blockTime(b)
	})

	tx, err := r.rpc.GetTransaction(ctx, latest.Signature)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "get transaction %s", latest.Signature), ErrUnresolved)
	}
	owner, ok := tx.FeePayer()
	if !ok {
		return "", errors.Wrapf(ErrUnresolved, "transaction %s has no account keys", latest.Signature)
	}

	r.logger.WithFields(logrus.Fields{
		"token":     token,
		"vault":     r.vault,
		"signature": latest.Signature,
		"owner":     owner,
	}).Debug("resolved custodial owner")

	return owner, nil
}

// blockTime orders signatures without a block time before all others.
func blockTime(s solana.SignatureInfo) int64 {
	if s.BlockTime == nil {
		return -1 << 63
	}
	return *s.BlockTime
}
