package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// DefaultRecentTransactions is how many ledger entries a balance view carries
// when the caller does not ask for a specific number.
const DefaultRecentTransactions = 20

const maxRecentTransactions = 200

var ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
	"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
)

// GetWalletBalanceQuery reads the caller's own wallet.
type GetWalletBalanceQuery struct {
	actor kernel.Actor
	limit int
	guard guard.ConstructorGuard
}

// NewGetWalletBalanceQuery accepts limit in [0, 200]; 0 selects
// DefaultRecentTransactions.
func NewGetWalletBalanceQuery(actor kernel.Actor, limit int) (GetWalletBalanceQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetWalletBalanceQuery{}, err
	}
	if limit < 0 || limit > maxRecentTransactions {
		return GetWalletBalanceQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, maxRecentTransactions)
	}
	if limit == 0 {
		limit = DefaultRecentTransactions
	}
	return GetWalletBalanceQuery{actor: actor, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}

func (q GetWalletBalanceQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetWalletBalanceQuery) Limit() int {
	return q.limit
}

// WalletBalanceView pairs the stored balance with the sum of the ledger so
// that drift between the two is visible.
type WalletBalanceView struct {
	UserID       string            `json:"userId"`
	Balance      string            `json:"balance"`
	LedgerTotal  string            `json:"ledgerTotal"`
	Currency     string            `json:"currency"`
	Transactions []TransactionView `json:"transactions"`
}

type TransactionView struct {
	ID           string    `json:"id"`
	Amount       string    `json:"amount"`
	Kind         string    `json:"kind"`
	ReferenceID  string    `json:"referenceId"`
	Description  string    `json:"description,omitempty"`
	BalanceAfter string    `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}
