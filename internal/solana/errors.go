package solana

import "github.com/cockroachdb/errors"

var (
	// ErrAccountNotFound is returned when an account lookup yields no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAddress is returned for strings that are not 32-byte base58 keys.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAccountData is returned when account data does not match the expected layout.
	ErrInvalidAccountData = errors.New("invalid account data")

	// ErrNoViablePDA is returned when no bump seed yields an off-curve address.
	ErrNoViablePDA = errors.New("unable to find a viable program address")
)
