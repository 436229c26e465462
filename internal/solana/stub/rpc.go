package stub

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/cockroachdb/errors"

	"solana-snapshot-kit/internal/solana"
)

// ErrNotFound is returned when a transaction is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu sync.Mutex

	Transactions    map[string]*solana.Transaction
	Signatures      map[string][]solana.SignatureInfo
	Accounts        map[string]*solana.AccountInfo
	LargestAccounts map[string][]solana.TokenAccountBalance
	ProgramAccounts map[string][]solana.ProgramAccount

	// Failures injects an error for a method/key pair, e.g. Fail("getAccountInfo", addr, err).
	Failures map[string]error

	calls map[string]int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions:    make(map[string]*solana.Transaction),
		Signatures:      make(map[string][]solana.SignatureInfo),
		Accounts:        make(map[string]*solana.AccountInfo),
		LargestAccounts: make(map[string][]solana.TokenAccountBalance),
		ProgramAccounts: make(map[string][]solana.ProgramAccount),
		Failures:        make(map[string]error),
		calls:           make(map[string]int),
	}
}

var _ solana.RPCClient = (*RPCClient)(nil)

func (c *RPCClient) record(method, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	return c.Failures[method+":"+key]
}

// Calls returns how many times method was invoked.
func (c *RPCClient) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls returns the number of RPC invocations across all methods.
func (c *RPCClient) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// GetTransaction retrieves a transaction by signature from the stub store.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	if err := c.record("getTransaction", signature); err != nil {
		return nil, err
	}
	tx, ok := c.Transactions[signature]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

// GetSignaturesForAddress retrieves signatures for an address from the stub store.
// Honors the Before cursor and Limit like the real node.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := c.record("getSignaturesForAddress", address); err != nil {
		return nil, err
	}
	sigs, ok := c.Signatures[address]
	if !ok {
		return nil, nil
	}

	if opts != nil && opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}

	// Apply limit if specified
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}

	return sigs, nil
}

// GetAccountInfo returns a stored account or nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.record("getAccountInfo", pubkey); err != nil {
		return nil, err
	}
	info, ok := c.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	return info, nil
}

// GetTokenLargestAccounts returns stored balances for a mint.
func (c *RPCClient) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	if err := c.record("getTokenLargestAccounts", mint); err != nil {
		return nil, err
	}
	return c.LargestAccounts[mint], nil
}

// GetProgramAccounts returns stored accounts for a program, ignoring filters.
func (c *RPCClient) GetProgramAccounts(_ context.Context, programID string, _ *solana.ProgramAccountsOpts) ([]solana.ProgramAccount, error) {
	if err := c.record("getProgramAccounts", programID); err != nil {
		return nil, err
	}
	return c.ProgramAccounts[programID], nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.Transactions[tx.Signature] = tx
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.Signatures[address] = sigs
}

// AddAccount stores raw account data under pubkey.
func (c *RPCClient) AddAccount(pubkey, owner string, data []byte) {
	c.Accounts[pubkey] = &solana.AccountInfo{
		Owner: owner,
		Data:  base64.StdEncoding.EncodeToString(data),
	}
}

// AddLargestAccounts stores getTokenLargestAccounts results for a mint.
func (c *RPCClient) AddLargestAccounts(mint string, balances []solana.TokenAccountBalance) {
	c.LargestAccounts[mint] = balances
}

// AddProgramAccount appends an account to a program's getProgramAccounts result.
func (c *RPCClient) AddProgramAccount(programID, pubkey string, data []byte) {
	c.ProgramAccounts[programID] = append(c.ProgramAccounts[programID], solana.ProgramAccount{
		Pubkey: pubkey,
		Account: solana.AccountInfo{
			Owner: programID,
			Data:  base64.StdEncoding.EncodeToString(data),
		},
	})
}

// Fail makes the next calls of method for key return err.
func (c *RPCClient) Fail(method, key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Failures[method+":"+key] = err
}
