package hashlist

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"solana-snapshot-kit/internal/solana"
)

// Generator lists the mints of a collection from the metadata program's accounts.
type Generator struct {
	rpc    solana.RPCClient
	logger logrus.FieldLogger
}

// NewGenerator creates a generator.
func NewGenerator(rpc solana.RPCClient, logger logrus.FieldLogger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{rpc: rpc, logger: logger}
}

// ByCreator returns the sorted, de-duplicated mints whose metadata lists
// creator as the first creator.
func (g *Generator) ByCreator(ctx context.Context, creator string) ([]string, error) {
	if !solana.IsValidAddress(creator) {
		return nil, errors.Wrapf(solana.ErrInvalidAddress, "creator %q", creator)
	}

	accounts, err := g.rpc.GetProgramAccounts(ctx, solana.MetadataProgramID, &solana.ProgramAccountsOpts{
		Filters: []solana.AccountFilter{
			{Memcmp: &solana.MemcmpFilter{Offset: solana.MetadataFirstCreatorOffset, Bytes: creator}},
		},
		DataSlice: &solana.DataSlice{Offset: solana.MetadataMintOffset, Length: 32},
	})
	if err != nil {
		return nil, errors.Wrap(err, "get metadata accounts")
	}

	mints := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		data, err := acc.Account.DecodeData()
		if err != nil {
			return nil, errors.Wrapf(err, "metadata account %s", acc.Pubkey)
		}
		mint, err := mintFromSlice(data)
		if err != nil {
			return nil, errors.Wrapf(err, "metadata account %s", acc.Pubkey)
		}
		mints = append(mints, mint)
	}

	mints = lo.Uniq(mints)
	sort.Strings(mints)

	g.logger.WithFields(logrus.Fields{
		"creator":  creator,
		"accounts": len(accounts),
		"mints":    len(mints),
	}).Info("generated hashlist")
	return mints, nil
}

// ByCandyMachine returns the mints of a Candy Machine v2 collection.
func (g *Generator) ByCandyMachine(ctx context.Context, candyMachine string) ([]string, error) {
	creator, err := solana.FindCandyMachineCreator(candyMachine)
	if err != nil {
		return nil, errors.Wrapf(err, "candy machine %q", candyMachine)
	}
	return g.ByCreator(ctx, creator)
}

// mintFromSlice reads the mint from account data that is either the 32-byte
// slice starting at the mint offset or a full metadata account.
func mintFromSlice(data []byte) (string, error) {
	switch {
	case len(data) == 32:
		return base58.Encode(data), nil
	case len(data) >= solana.MetadataMintOffset+32:
		return base58.Encode(data[solana.MetadataMintOffset : solana.MetadataMintOffset+32]), nil
	default:
		return "", errors.Wrapf(solana.ErrInvalidAccountData, "%d bytes", len(data))
	}
}
