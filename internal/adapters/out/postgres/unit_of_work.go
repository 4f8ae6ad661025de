// Package postgres provides the GORM-based Unit of Work that binds the
// marketplace repositories to one database transaction.
//
// Repositories obtained before Begin, or after Commit and Rollback, run on
// the plain connection:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
//	// ... mutate and persist
//
//	return uow.Commit(ctx)
//
// Every aggregate written through a repository is tracked. After a successful
// commit the unit of work tells its commit observers which shipments the
// transaction touched, which is how cached shipment views are invalidated.
package postgres

import (
	"context"
	"slices"

	"freight/internal/adapters/out/postgres/agreementrepo"
	"freight/internal/adapters/out/postgres/offerrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/adapters/out/postgres/trackingrepo"
	"freight/internal/adapters/out/postgres/walletrepo"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one set of commit observers.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	observers []ports.CommitObserver
}

func NewGormUnitOfWorkFactory(db *gorm.DB, observers ...ports.CommitObserver) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, observers: observers}
}

// Create produces a fresh unit of work. Instances must not be shared between
// goroutines.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		observers:         f.observers,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the marketplace
// repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	observers         []ports.CommitObserver
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes the transaction and then notifies the commit observers.
// Returns gorm.ErrInvalidTransaction when no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	if ids := uow.touchedShipments(); len(ids) > 0 {
		for _, o := range uow.observers {
			o.AfterCommit(ctx, ids)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction. Returns gorm.ErrInvalidTransaction when
// no transaction is active, which makes a deferred Rollback after Commit a
// harmless no-op.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OfferRepository() ports.OfferRepository {
	return offerrepo.NewGormOfferRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AgreementRepository() ports.AgreementRepository {
	return agreementrepo.NewGormAgreementRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TrackingRepository() ports.TrackingRepository {
	return trackingrepo.NewGormTrackingRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) WalletRepository() ports.WalletRepository {
	return walletrepo.NewGormWalletRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// touchedShipments lists, without duplicates, the shipments whose views the
// tracked writes may have changed.
func (uow *GormUnitOfWork) touchedShipments() []string {
	ids := make([]string, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		var id kernel.UUID
		switch a := tracked.Aggregate.(type) {
		case *shipment.Shipment:
			id = a.ID()
		case *offer.Offer:
			id = a.ShipmentID()
		case *agreement.Agreement:
			id = a.ShipmentID()
		case *agreement.Commission:
			id = a.ShipmentID()
		case *tracking.Event:
			id = a.ShipmentID()
		default:
			continue
		}
		if s := id.String(); !slices.Contains(ids, s) {
			ids = append(ids, s)
		}
	}
	return ids
}
