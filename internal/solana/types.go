package solana

import (
	"encoding/base64"

	"github.com/cockroachdb/errors"
)

// Well-known program IDs.
const (
	SystemProgramID          = "11111111111111111111111111111111"
	TokenProgramID           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetadataProgramID        = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	CandyMachineV2ProgramID  = "cndy3Z4yapfJBmL3ShUp5exZKqR3z33thTzeNMm2gRZ"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// Confirmation statuses reported by getSignaturesForAddress.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature          string
	Slot               int64
	BlockTime          *int64
	Err                interface{}
	ConfirmationStatus string
}

// Finalized reports whether the signature reached finalized commitment.
func (s SignatureInfo) Finalized() bool {
	return s.ConfirmationStatus == CommitmentFinalized
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// DecodeData returns the raw account data.
func (a *AccountInfo) DecodeData() ([]byte, error) {
	if a == nil {
		return nil, ErrAccountNotFound
	}
	decoded, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode account data")
	}
	return decoded, nil
}

// TokenAccountBalance is one entry of getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address        string
	Amount         string // raw amount, base units
	Decimals       int
	UIAmount       *float64
	UIAmountString string
}

// ProgramAccountsOpts narrows getProgramAccounts results.
type ProgramAccountsOpts struct {
	Filters   []AccountFilter
	DataSlice *DataSlice
}

// AccountFilter is a getProgramAccounts filter. Exactly one field should be set.
type AccountFilter struct {
	Memcmp   *MemcmpFilter
	DataSize uint64
}

// MemcmpFilter compares base58-encoded bytes at an offset of the account data.
type MemcmpFilter struct {
	Offset uint64
	Bytes  string
}

// DataSlice limits returned account data to [Offset, Offset+Length).
type DataSlice struct {
	Offset uint64
	Length uint64
}

// ProgramAccount is one entry of getProgramAccounts.
type ProgramAccount struct {
	Pubkey  string
	Account AccountInfo
}
