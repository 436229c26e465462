package domain

// OwnershipRecord aggregates the tokens held by one owner.
type OwnershipRecord struct {
	Amount int      `json:"amount"`
	Mints  []string `json:"mints"`
}

// HolderSnapshot is the owner -> record mapping written to gib-holders.json.
type HolderSnapshot map[string]*OwnershipRecord

// TotalMints sums amounts over all records.
func (s HolderSnapshot) TotalMints() int {
	total := 0
	for _, r := range s {
		total += r.Amount
	}
	return total
}

// TokenOwnership is the resolved owner of a single token.
type TokenOwnership struct {
	Mint           string
	TokenAccount   string // largest holder token account
	NominalOwner   string // owner field of TokenAccount
	EffectiveOwner string // after custody resolution
}

// Custodial reports whether the owner was re-resolved through a vault.
func (o TokenOwnership) Custodial() bool {
	return o.NominalOwner != o.EffectiveOwner
}
