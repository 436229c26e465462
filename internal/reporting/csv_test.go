package reporting

import (
	"strings"
	"testing"

	"solana-snapshot-kit/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFormatMintPrice(t *testing.T) {
	tests := []struct {
		name     string
		lamports *int64
		want     string
	}{
		{"nil", nil, PriceUnavailable},
		{"zero", ptr(int64(0)), "0"},
		{"whole", ptr(int64(2_000_000_000)), "2"},
		{"fraction", ptr(int64(1_500_000_000)), "1.5"},
		{"one lamport", ptr(int64(1)), "0.000000001"},
		{"refund", ptr(int64(-5000)), "-0.000005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMintPrice(tt.lamports); got != tt.want {
				t.Errorf("FormatMintPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMintDate(t *testing.T) {
	if got := FormatMintDate(nil); got != DateUnavailable {
		t.Errorf("FormatMintDate(nil) = %q, want %q", got, DateUnavailable)
	}

	got := FormatMintDate(ptr(int64(1_700_000_000)))
	if want := "Tue, 14 Nov 2023 22:13:20 GMT"; got != want {
		t.Errorf("FormatMintDate() = %q, want %q", got, want)
	}
}

func TestRenderMinterRow_StripsCommas(t *testing.T) {
	row := RenderMinterRow(&domain.MinterRecord{
		Token:             "TokenA",
		Minter:            "MinterM",
		MintPriceLamports: ptr(int64(1_000_000_000)),
		BlockTime:         ptr(int64(1_700_000_000)),
		MintSignature:     "sig,with,commas",
	})

	want := "TokenA,MinterM,1,Tue 14 Nov 2023 22:13:20 GMT,sigwithcommas\n"
	if row != want {
		t.Errorf("RenderMinterRow() = %q, want %q", row, want)
	}
	if n := len(strings.Split(strings.TrimSuffix(row, "\n"), ",")); n != 5 {
		t.Errorf("expected 5 fields, got %d", n)
	}
}

func TestRenderMinterRow_Placeholders(t *testing.T) {
	row := RenderMinterRow(&domain.MinterRecord{Token: "TokenA", Minter: "MinterM", MintSignature: "sig"})

	want := "TokenA,MinterM,CHECK SOLSCAN,Check signature for date,sig\n"
	if row != want {
		t.Errorf("RenderMinterRow() = %q, want %q", row, want)
	}
}

func TestRenderMinterCSV(t *testing.T) {
	doc := RenderMinterCSV([]*domain.MinterRecord{
		{Token: "TokenA", Minter: "M1", MintSignature: "s1"},
		{Token: "TokenB", Minter: "M2", MintSignature: "s2"},
	})

	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0]+"\n" != MinterCSVHeader {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "TokenB,M2,") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}
