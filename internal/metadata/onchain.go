// Package metadata builds the resumable token metadata cache: on-chain Metaplex
// metadata plus the off-chain JSON document its URI points to.
package metadata

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/solana"
)

// ErrNoMetadata is returned when a mint has no metadata account.
var ErrNoMetadata = errors.New("no metadata account")

// OnChainFetcher reads Metaplex metadata accounts.
type OnChainFetcher struct {
	rpc solana.RPCClient
}

// NewOnChainFetcher creates a fetcher.
func NewOnChainFetcher(rpc solana.RPCClient) *OnChainFetcher {
	return &OnChainFetcher{rpc: rpc}
}

// Fetch derives the metadata account of mint and decodes it.
// RPC failures are returned as-is; a missing or malformed account is ErrNoMetadata
// or solana.ErrInvalidAccountData.
func (f *OnChainFetcher) Fetch(ctx context.Context, mint string) (*domain.TokenData, error) {
	address, err := solana.FindMetadataAddress(mint)
	if err != nil {
		return nil, errors.Wrap(err, "derive metadata address")
	}

	info, err := f.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.Wrapf(ErrNoMetadata, "account %s", address)
	}

	data, err := info.DecodeData()
	if err != nil {
		return nil, errors.Mark(err, solana.ErrInvalidAccountData)
	}
	md, err := solana.DecodeMetadata(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode metadata account %s", address)
	}

	return &domain.TokenData{
		Name:                 md.Name,
		Symbol:               md.Symbol,
		URI:                  md.URI,
		SellerFeeBasisPoints: md.SellerFeeBasisPoints,
		Creators: lo.Map(md.Creators, func(c solana.Creator, _ int) domain.Creator {
			return domain.Creator{Address: c.Address, Verified: c.Verified, Share: c.Share}
		}),
	}, nil
}
