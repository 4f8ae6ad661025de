package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetWalletBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletBalanceQueryHandler(db *gorm.DB) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{db: db}
}

// Handle reports a zero balance for users that were never credited.
// Transactions are newest first.
func (h GetWalletBalanceQueryHandler) Handle(ctx context.Context, query GetWalletBalanceQuery) (*WalletBalanceView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	userID := query.Actor().ID().Bytes()
	db := h.db.WithContext(ctx)

	view := &WalletBalanceView{
		UserID:       query.Actor().ID().String(),
		Balance:      decimal.Zero.StringFixed(2),
		Currency:     wallet.DefaultCurrency,
		Transactions: make([]TransactionView, 0),
	}

	var balance decimal.Decimal
	err := db.Raw(`SELECT balance, currency FROM wallets WHERE user_id = ?`, userID).
		Row().
		Scan(&balance, &view.Currency)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		view.Balance = balance.StringFixed(2)
	}

	var total decimal.Decimal
	if err = db.Raw(`SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = ?`, userID).
		Row().
		Scan(&total); err != nil {
		return nil, err
	}
	view.LedgerTotal = total.StringFixed(2)

	rows, err := db.Raw(`
		SELECT id, amount, kind, reference_id, description, balance_after, created_at
		FROM wallet_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, userID, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, referenceID      uuid.UUID
			amount, balanceAfter decimal.Decimal
			kind, description    string
			createdAt            time.Time
		)
		if err = rows.Scan(&id, &amount, &kind, &referenceID, &description, &balanceAfter, &createdAt); err != nil {
			return nil, err
		}
		view.Transactions = append(view.Transactions, TransactionView{
			ID:           id.String(),
			Amount:       amount.StringFixed(2),
			Kind:         kind,
			ReferenceID:  referenceID.String(),
			Description:  description,
			BalanceAfter: balanceAfter.StringFixed(2),
			CreatedAt:    createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return view, nil
}
