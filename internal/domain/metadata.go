package domain

import (
	"bytes"
	"encoding/json"
)

// TokenData is the on-chain Metaplex metadata of a token.
type TokenData struct {
	Name                 string    `json:"name"`
	Symbol               string    `json:"symbol"`
	URI                  string    `json:"uri"`
	SellerFeeBasisPoints uint16    `json:"sellerFeeBasisPoints"`
	Creators             []Creator `json:"creators"`
}

// Creator is a verified-or-not creator share of a token.
type Creator struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"`
}

// MetadataEntry is one element of the metadata cache (gib-meta.json).
// Entries loaded from a previous run keep their original bytes in Raw so they
// are written back unchanged.
type MetadataEntry struct {
	TokenData TokenData       `json:"tokenData"`
	Metadata  json.RawMessage `json:"metadata"` // off-chain JSON document, or null
	Mint      string          `json:"mint"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON writes Raw verbatim when present.
func (e MetadataEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type plain MetadataEntry
	p := plain(e)
	if len(p.Metadata) == 0 {
		p.Metadata = json.RawMessage("null")
	}
	if p.TokenData.Creators == nil {
		p.TokenData.Creators = []Creator{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes an entry and remembers its exact bytes.
func (e *MetadataEntry) UnmarshalJSON(data []byte) error {
	type plain MetadataEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = MetadataEntry(p)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// HasOffChainMetadata reports whether the off-chain document was resolved.
func (e *MetadataEntry) HasOffChainMetadata() bool {
	return len(e.Metadata) > 0 && string(e.Metadata) != "null"
}
