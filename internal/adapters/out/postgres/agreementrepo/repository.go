package agreementrepo

import (
	"context"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

const (
	agreementEntity  = "agreement"
	commissionEntity = "commission"
)

// GormAgreementRepository implements ports.AgreementRepository using GORM.
type GormAgreementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAgreementRepository(db *gorm.DB, tracker aggregateTracker) *GormAgreementRepository {
	return &GormAgreementRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormAgreementRepository) Add(ctx context.Context, aggregate *agreement.Agreement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := agreementFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Translate(err, agreementEntity, "for offer "+aggregate.OfferID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAgreementRepository) Update(ctx context.Context, aggregate *agreement.Agreement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := agreementFromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&AgreementDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if err := dberr.CheckVersion(result, agreementEntity, aggregate.ID().String(), aggregate.Version()); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormAgreementRepository) Get(ctx context.Context, id kernel.UUID) (*agreement.Agreement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgreementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.Translate(err, agreementEntity, id.String())
	}

	return agreementToDomain(dto)
}

func (r *GormAgreementRepository) GetByOfferID(ctx context.Context, offerID kernel.UUID) (*agreement.Agreement, error) {
	if err := offerID.Validate(); err != nil {
		return nil, err
	}

	var dto AgreementDTO
	if err := r.db.WithContext(ctx).First(&dto, "offer_id = ?", offerID.Bytes()).Error; err != nil {
		return nil, dberr.Translate(err, agreementEntity, "for offer "+offerID.String())
	}

	return agreementToDomain(dto)
}

func (r *GormAgreementRepository) AddCommission(ctx context.Context, commission *agreement.Commission) error {
	if err := commission.Validate(); err != nil {
		return err
	}

	dto := commissionFromDomain(commission)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Translate(err, commissionEntity, "for agreement "+commission.AgreementID().String())
	}

	r.tracker.TrackAggregate(commission.ID(), commission)
	return nil
}

func (r *GormAgreementRepository) UpdateCommission(ctx context.Context, commission *agreement.Commission) error {
	if err := commission.Validate(); err != nil {
		return err
	}

	dto := commissionFromDomain(commission)
	dto.Version = commission.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&CommissionDTO{}).
		Where("id = ? AND version = ?", dto.ID, commission.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if err := dberr.CheckVersion(result, commissionEntity, commission.ID().String(), commission.Version()); err != nil {
		return err
	}

	commission.AdvanceVersion()
	r.tracker.TrackAggregate(commission.ID(), commission)
	return nil
}

func (r *GormAgreementRepository) GetCommissionByAgreementID(
	ctx context.Context,
	agreementID kernel.UUID,
) (*agreement.Commission, error) {
	if err := agreementID.Validate(); err != nil {
		return nil, err
	}

	var dto CommissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "agreement_id = ?", agreementID.Bytes()).Error; err != nil {
		return nil, dberr.Translate(err, commissionEntity, "for agreement "+agreementID.String())
	}

	return commissionToDomain(dto)
}
