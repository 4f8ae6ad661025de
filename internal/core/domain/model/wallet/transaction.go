package wallet

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via Wallet.Credit or RestoreTransaction")

// Kind of a ledger entry. Settlement only credits; the payout rail that
// debits is external.
type Kind string

const KindCredit Kind = "credit"

func (k Kind) Validate() error {
	if k != KindCredit {
		return errs.NewValueIsInvalidErrorWithCause("transaction kind", fmt.Errorf("%q is not a valid kind", string(k)))
	}
	return nil
}

// Transaction is an immutable ledger entry of a wallet.
type Transaction struct {
	id           kernel.UUID
	userID       kernel.UUID
	amount       kernel.Money
	kind         Kind
	referenceID  kernel.UUID
	description  string
	balanceAfter kernel.Money
	createdAt    time.Time
	guard        guard.ConstructorGuard
}

func RestoreTransaction(
	id kernel.UUID,
	userID kernel.UUID,
	amount kernel.Money,
	kind Kind,
	referenceID kernel.UUID,
	description string,
	balanceAfter kernel.Money,
	createdAt time.Time,
) (*Transaction, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		amount.Validate(),
		kind.Validate(),
		referenceID.Validate(),
		balanceAfter.Validate(),
	); err != nil {
		return nil, err
	}

	return &Transaction{
		id:           id,
		userID:       userID,
		amount:       amount,
		kind:         kind,
		referenceID:  referenceID,
		description:  description,
		balanceAfter: balanceAfter,
		createdAt:    createdAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

func (t *Transaction) ID() kernel.UUID { return t.id }
func (t *Transaction) UserID() kernel.UUID { return t.userID }
func (t *Transaction) Amount() kernel.Money { return t.amount }
func (t *Transaction) Kind() Kind { return t.kind }
func (t *Transaction) ReferenceID() kernel.UUID { return t.referenceID }
func (t *Transaction) Description() string { return t.description }
func (t *Transaction) BalanceAfter() kernel.Money { return t.balanceAfter }
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }
