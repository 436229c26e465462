package solana

import (
	"encoding/binary"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
)

// TokenAccount is a decoded SPL token account.
// Layout: mint(32) | owner(32) | amount(8) | ...
type TokenAccount struct {
	Mint   string
	Owner  string
	Amount uint64
}

const tokenAccountMinLen = 72

// DecodeTokenAccount decodes SPL token account data.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < tokenAccountMinLen {
		return nil, errors.Wrapf(ErrInvalidAccountData, "token account data too short: %d", len(data))
	}
	return &TokenAccount{
		Mint:   base58.Encode(data[0:32]),
		Owner:  base58.Encode(data[32:64]),
		Amount: binary.LittleEndian.Uint64(data[64:72]),
	}, nil
}

// Metaplex metadata account key for MetadataV1.
const metadataKeyV1 = 4

// Byte offsets inside a Metaplex metadata account. Name, symbol and uri are
// written padded to their maximum lengths, which puts the first creator at a
// fixed offset.
const (
	MetadataMintOffset         = 1 + 32
	MetadataFirstCreatorOffset = 1 + 32 + 32 + (4 + 32) + (4 + 10) + (4 + 200) + 2 + 1 + 4
)

// Creator is a Metaplex creator entry.
type Creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"`
}

// Metadata is a decoded Metaplex token metadata account.
// Layout:
// - key: u8 (4 for MetadataV1)
// - updateAuthority: Pubkey
// - mint: Pubkey
// - name, symbol, uri: borsh String (u32 length + bytes, NUL padded)
// - sellerFeeBasisPoints: u16
// - creators: Option<Vec<Creator{address: Pubkey, verified: bool, share: u8}>>
type Metadata struct {
	UpdateAuthority      string
	Mint                 string
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
}

// DecodeMetadata decodes Metaplex token metadata account data.
func DecodeMetadata(data []byte) (*Metadata, error) {
	r := &borshReader{buf: data}

	key := r.u8()
	if r.err == nil && key != metadataKeyV1 {
		return nil, errors.Wrapf(ErrInvalidAccountData, "unexpected metadata key %d", key)
	}

	m := &Metadata{}
	m.UpdateAuthority = r.pubkey()
	m.Mint = r.pubkey()
	m.Name = r.str(32)
	m.Symbol = r.str(10)
	m.URI = r.str(200)
	m.SellerFeeBasisPoints = r.u16()

	if r.u8() == 1 {
		n := r.u32()
		if r.err == nil && n > 5 {
			return nil, errors.Wrapf(ErrInvalidAccountData, "too many creators: %d", n)
		}
		for i := uint32(0); i < n && r.err == nil; i++ {
			c := Creator{Address: r.pubkey()}
			c.Verified = r.u8() == 1
			c.Share = r.u8()
			m.Creators = append(m.Creators, c)
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

// borshReader reads little-endian borsh primitives, latching the first error.
type borshReader struct {
	buf []byte
	off int
	err error
}

func (r *borshReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = errors.Wrapf(ErrInvalidAccountData, "unexpected end of data at offset %d", r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *borshReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *borshReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *borshReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *borshReader) pubkey() string {
	b := r.take(32)
	if b == nil {
		return ""
	}
	return base58.Encode(b)
}

// str reads a borsh string, rejecting lengths far above max (padded strings
// may slightly exceed the nominal limit for multi-byte characters).
func (r *borshReader) str(max int) string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if int(n) > max*4 {
		r.err = errors.Wrapf(ErrInvalidAccountData, "string length %d exceeds limit", n)
		return ""
	}
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return strings.TrimRight(string(b), "\x00")
}
