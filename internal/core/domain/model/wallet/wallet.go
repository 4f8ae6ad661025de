package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// DefaultCurrency of every wallet.
const DefaultCurrency = "USD"

var ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet or RestoreWallet")

// Wallet is a per-user running balance. The balance only changes together
// with an appended Transaction, so it always equals the ledger sum.
type Wallet struct {
	userID    kernel.UUID
	balance   kernel.Money
	currency  string
	version   kernel.Version
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewWallet(userID kernel.UUID, now time.Time) (*Wallet, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	return &Wallet{
		userID:    userID,
		balance:   kernel.ZeroMoney(),
		currency:  DefaultCurrency,
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func RestoreWallet(
	userID kernel.UUID,
	balance kernel.Money,
	currency string,
	version int64,
	createdAt, updatedAt time.Time,
) (*Wallet, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	var currencyErr error
	if currency == "" {
		currencyErr = errs.NewValueIsRequiredError("wallet currency")
	}
	if err := errors.Join(userID.Validate(), balance.Validate(), currencyErr); err != nil {
		return nil, err
	}

	return &Wallet{
		userID:    userID,
		balance:   balance,
		currency:  currency,
		version:   kernel.RestoreVersion(version),
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (w *Wallet) Validate() error {
	if w == nil {
		return ErrWalletIsNotConstructed
	}
	return w.guard.Validate(ErrWalletIsNotConstructed)
}

func (w *Wallet) UserID() kernel.UUID {
	return w.userID
}

func (w *Wallet) Balance() kernel.Money {
	return w.balance
}

func (w *Wallet) Currency() string {
	return w.currency
}

func (w *Wallet) CreatedAt() time.Time {
	return w.createdAt
}

func (w *Wallet) UpdatedAt() time.Time {
	return w.updatedAt
}

func (w *Wallet) Version() int64 {
	return w.version.Version()
}

func (w *Wallet) AdvanceVersion() {
	w.version.Advance()
}

// Credit adds a positive amount and returns the ledger entry that records it.
// referenceID ties the entry to what paid for it (a commission for
// settlements).
func (w *Wallet) Credit(
	txID kernel.UUID,
	amount kernel.Money,
	referenceID kernel.UUID,
	description string,
	now time.Time,
) (*Transaction, error) {
	if err := errors.Join(txID.Validate(), amount.Validate(), referenceID.Validate()); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("credit amount", fmt.Errorf("%s is not greater than 0", amount))
	}

	w.balance = w.balance.Add(amount)
	w.updatedAt = now.UTC()

	return &Transaction{
		id:           txID,
		userID:       w.userID,
		amount:       amount,
		kind:         KindCredit,
		referenceID:  referenceID,
		description:  strings.TrimSpace(description),
		balanceAfter: w.balance,
		createdAt:    now.UTC(),
		guard:        guard.NewConstructorGuard(),
	}, nil
}
