// Package walletrepo persists wallets and their ledger. A wallet row is
// created lazily by the first GetForUpdate for its user.
package walletrepo

import (
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/pgmap"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletDTO struct {
	UserID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Balance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Version   int64           `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletDTO) TableName() string {
	return "wallets"
}

// TransactionDTO rows are unique per (reference_id, kind), which makes a
// second credit for the same commission impossible.
type TransactionDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Kind         string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_wallet_transactions_reference,priority:2"`
	ReferenceID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_transactions_reference,priority:1"`
	Description  string
	BalanceAfter decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt    time.Time
}

func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

func walletFromDomain(w *wallet.Wallet) WalletDTO {
	return WalletDTO{
		UserID:    w.UserID().Bytes(),
		Balance:   w.Balance().Decimal(),
		Currency:  w.Currency(),
		Version:   w.Version(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}

func walletToDomain(dto WalletDTO) (*wallet.Wallet, error) {
	userID, idErr := pgmap.ToUUID(dto.UserID)
	balance, balanceErr := kernel.NewMoney(dto.Balance)
	if err := errors.Join(idErr, balanceErr); err != nil {
		return nil, err
	}
	return wallet.RestoreWallet(userID, balance, dto.Currency, dto.Version, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}

func transactionFromDomain(tx *wallet.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           tx.ID().Bytes(),
		UserID:       tx.UserID().Bytes(),
		Amount:       tx.Amount().Decimal(),
		Kind:         string(tx.Kind()),
		ReferenceID:  tx.ReferenceID().Bytes(),
		Description:  tx.Description(),
		BalanceAfter: tx.BalanceAfter().Decimal(),
		CreatedAt:    tx.CreatedAt(),
	}
}
