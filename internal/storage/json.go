package storage

import (
	"bytes"
	"encoding/json"
)

// MarshalCompact encodes v as compact JSON without HTML escaping, so raw
// documents round-trip byte for byte.
func MarshalCompact(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
