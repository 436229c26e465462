package domain

// MinterRecord attributes a token to the fee payer of its earliest finalized transaction.
type MinterRecord struct {
	Token             string
	Minter            string
	MintPriceLamports *int64 // nil when transaction meta was unavailable
	BlockTime         *int64 // unix seconds, nil when the node did not report one
	MintSignature     string
}
