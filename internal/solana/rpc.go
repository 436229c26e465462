package solana

import "context"

// RPCClient defines the read-only Solana RPC surface used by the snapshot tools.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature. Returns nil if not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetAccountInfo retrieves raw account info. Returns nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenLargestAccounts returns the largest token accounts of a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// GetProgramAccounts returns all accounts owned by a program that match the filters.
	GetProgramAccounts(ctx context.Context, programID string, opts *ProgramAccountsOpts) ([]ProgramAccount, error)
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime *int64 // Unix timestamp (seconds), nil when the node did not report one
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err          interface{}
	Fee          uint64
	PreBalances  []uint64
	PostBalances []uint64
	LogMessages  []string

	// Addresses loaded from lookup tables (v0 transactions).
	LoadedWritable []string
	LoadedReadonly []string
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}

// FeePayer returns the first account key, which always signs and pays the fee.
func (tx *Transaction) FeePayer() (string, bool) {
	if tx == nil || tx.Message == nil || len(tx.Message.AccountKeys) == 0 {
		return "", false
	}
	return tx.Message.AccountKeys[0], true
}

// AccountKeys returns static account keys followed by lookup-table loaded addresses.
func (tx *Transaction) AccountKeys() []string {
	if tx == nil {
		return nil
	}
	var keys []string
	if tx.Message != nil {
		keys = append(keys, tx.Message.AccountKeys...)
	}
	if tx.Meta != nil {
		keys = append(keys, tx.Meta.LoadedWritable...)
		keys = append(keys, tx.Meta.LoadedReadonly...)
	}
	return keys
}

// References reports whether the transaction touches the given account.
func (tx *Transaction) References(address string) bool {
	for _, key := range tx.AccountKeys() {
		if key == address {
			return true
		}
	}
	return false
}
