package solana

import (
	"context"

	"github.com/cockroachdb/errors"
)

// MaxSignaturesPageSize is the largest page getSignaturesForAddress accepts.
const MaxSignaturesPageSize = 1000

// GetAllSignaturesForAddress walks the full signature history of an address,
// newest first, following the before cursor until a short page is returned.
func GetAllSignaturesForAddress(ctx context.Context, rpc RPCClient, address string) ([]SignatureInfo, error) {
	var all []SignatureInfo
	var before string

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := rpc.GetSignaturesForAddress(ctx, address, &SignaturesOpts{
			Before: before,
			Limit:  MaxSignaturesPageSize,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "get signatures for %s", address)
		}

		all = append(all, page...)

		if len(page) < MaxSignaturesPageSize {
			return all, nil
		}
		before = page[len(page)-1].Signature
	}
}
