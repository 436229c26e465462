package stub

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/mr-tron/base58"

	"solana-snapshot-kit/internal/solana"
)

// Key returns a deterministic valid address for a test name such as "OwnerX".
func Key(name string) string {
	sum := sha256.Sum256([]byte(name))
	return base58.Encode(sum[:])
}

// TokenAccountData encodes an SPL token account. Panics on invalid keys.
func TokenAccountData(mint, owner string, amount uint64) []byte {
	data := make([]byte, 165)
	copy(data[0:32], mustKey(mint))
	copy(data[32:64], mustKey(owner))
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

// MetadataData encodes a Metaplex MetadataV1 account with padded strings.
func MetadataData(m solana.Metadata) []byte {
	data := []byte{4}
	data = append(data, mustKey(orDefault(m.UpdateAuthority, solana.SystemProgramID))...)
	data = append(data, mustKey(m.Mint)...)
	data = appendPadded(data, m.Name, 32)
	data = appendPadded(data, m.Symbol, 10)
	data = appendPadded(data, m.URI, 200)
	data = binary.LittleEndian.AppendUint16(data, m.SellerFeeBasisPoints)

	if len(m.Creators) == 0 {
		data = append(data, 0)
	} else {
		data = append(data, 1)
		data = binary.LittleEndian.AppendUint32(data, uint32(len(m.Creators)))
		for _, c := range m.Creators {
			data = append(data, mustKey(c.Address)...)
			if c.Verified {
				data = append(data, 1)
			} else {
				data = append(data, 0)
			}
			data = append(data, c.Share)
		}
	}

	// primarySaleHappened, isMutable
	return append(data, 0, 1)
}

func appendPadded(data []byte, s string, size int) []byte {
	buf := make([]byte, size)
	copy(buf, s)
	data = binary.LittleEndian.AppendUint32(data, uint32(size))
	return append(data, buf...)
}

func mustKey(address string) []byte {
	b, err := base58.Decode(address)
	if err != nil || len(b) != 32 {
		panic("stub: invalid key " + address)
	}
	return b
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
