package offerrepo

import (
	"context"
	"time"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entity = "offer"

// GormOfferRepository implements ports.OfferRepository using GORM.
type GormOfferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOfferRepository(db *gorm.DB, tracker aggregateTracker) *GormOfferRepository {
	return &GormOfferRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new offer. A second pending offer of the same carrier on the
// same shipment violates a partial unique index and surfaces as a Conflict.
func (r *GormOfferRepository) Add(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Translate(err, entity, aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-swap on the offer version.
func (r *GormOfferRepository) Update(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if err := dberr.CheckVersion(result, entity, aggregate.ID().String(), aggregate.Version()); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.Translate(err, entity, id.String())
	}

	return toDomain(dto)
}

// ListByShipment returns every offer of the shipment, oldest first.
func (r *GormOfferRepository) ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*offer.Offer, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OfferDTO
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOfferRepository) HasPendingFromCarrier(ctx context.Context, shipmentID, carrierID kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("shipment_id = ? AND carrier_id = ? AND status = ?",
			shipmentID.Bytes(), carrierID.Bytes(), offer.Pending.String()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListExpired locks up to limit stale pending offers. Rows already locked by a
// concurrent sweep or an accepting transaction are skipped.
func (r *GormOfferRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*offer.Offer, error) {
	var dtos []OfferDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND expires_at < ?", offer.Pending.String(), now).
		Order("expires_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}
