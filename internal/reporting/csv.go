package reporting

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solana-snapshot-kit/internal/domain"
	"solana-snapshot-kit/internal/solana"
)

// MinterCSVHeader is the first line of minters_information.csv.
const MinterCSVHeader = "Token Address, Minter Address, Mint Price, Mint Date, Signature\n"

// Placeholders written when a value could not be derived from the transaction.
const (
	PriceUnavailable = "CHECK SOLSCAN"
	DateUnavailable  = "Check signature for date"
)

var lamportsPerSOL = decimal.NewFromInt(solana.LamportsPerSOL)

// FormatMintPrice converts lamports to a SOL string, or the placeholder for nil.
func FormatMintPrice(lamports *int64) string {
	if lamports == nil {
		return PriceUnavailable
	}
	return decimal.NewFromInt(*lamports).Div(lamportsPerSOL).String()
}

// FormatMintDate renders a unix-seconds block time as an HTTP-style UTC date,
// or the placeholder for nil.
func FormatMintDate(blockTime *int64) string {
	if blockTime == nil {
		return DateUnavailable
	}
	return time.Unix(*blockTime, 0).UTC().Format(http.TimeFormat)
}

// RenderMinterRow renders one CSV line (with trailing newline).
// Every field is stripped of commas and line breaks so a row always has five fields.
func RenderMinterRow(r *domain.MinterRecord) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s\n",
		csvField(r.Token),
		csvField(r.Minter),
		csvField(FormatMintPrice(r.MintPriceLamports)),
		csvField(FormatMintDate(r.BlockTime)),
		csvField(r.MintSignature),
	)
}

// RenderMinterCSV renders a full minters_information.csv document.
func RenderMinterCSV(records []*domain.MinterRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString(MinterCSVHeader)

	// Rows
	for _, r := range records {
		sb.WriteString(RenderMinterRow(r))
	}

	return sb.String()
}

var csvFieldReplacer = strings.NewReplacer(",", "", "\r", " ", "\n", " ")

func csvField(s string) string {
	return csvFieldReplacer.Replace(s)
}
