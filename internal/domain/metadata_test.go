package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetadataEntry_MarshalNewEntry(t *testing.T) {
	e := MetadataEntry{TokenData: TokenData{Name: "A&B"}, Mint: "TokenA"}
	data, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"tokenData":{"name":"A&B","symbol":"","uri":"","sellerFeeBasisPoints":0,"creators":[]},"metadata":null,"mint":"TokenA"}`
	if got := string(data); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMetadataEntry_RawRoundTrip(t *testing.T) {
	raw := "{\n  \"mint\": \"TokenA\",\n  \"metadata\": {\"a\": \"<b>\"}\n}"
	var e MetadataEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Mint != "TokenA" {
		t.Errorf("mint = %q", e.Mint)
	}
	out, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Errorf("raw bytes changed: %s", out)
	}
	if !strings.Contains(string(e.Metadata), "<b>") {
		t.Errorf("metadata = %s", e.Metadata)
	}
}
