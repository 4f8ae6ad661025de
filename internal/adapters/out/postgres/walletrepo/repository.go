package walletrepo

import (
	"context"
	"time"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entity = "wallet"

// GormWalletRepository implements ports.WalletRepository using GORM.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
	now     func() time.Time
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// GetForUpdate inserts an empty wallet when the user has none, then locks the
// row. Concurrent first credits race on the insert and both end up waiting on
// the same lock.
func (r *GormWalletRepository) GetForUpdate(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	fresh, err := wallet.NewWallet(userID, r.now())
	if err != nil {
		return nil, err
	}
	seed := walletFromDomain(fresh)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		return nil, dberr.Translate(err, entity, userID.String())
	}

	return walletToDomain(dto)
}

// Update is a compare-and-swap on the wallet version.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&WalletDTO{}).
		Where("user_id = ? AND version = ?", dto.UserID, aggregate.Version()).
		Select("*").
		Omit("user_id", "created_at").
		Updates(&dto)
	if err := dberr.CheckVersion(result, entity, aggregate.UserID().String(), aggregate.Version()); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.UserID(), aggregate)
	return nil
}

// AppendTransaction inserts a ledger entry. A duplicate (reference, kind)
// pair surfaces as a Conflict.
func (r *GormWalletRepository) AppendTransaction(ctx context.Context, tx *wallet.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Translate(err, "wallet transaction", string(tx.Kind())+" for "+tx.ReferenceID().String())
	}

	r.tracker.TrackAggregate(tx.ID(), tx)
	return nil
}
