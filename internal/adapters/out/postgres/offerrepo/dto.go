// Package offerrepo persists the offer book.
package offerrepo

import (
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/pgmap"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferDTO is the row layout of the offers table. Partial unique indexes on
// (shipment_id) for accepted rows and (shipment_id, carrier_id) for pending
// rows are created by the migration.
type OfferDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShipmentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CarrierID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Commission        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Rate              decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	EstimatedDelivery time.Time
	Message           string
	Status            string    `gorm:"type:varchar(16);not null;index"`
	ExpiresAt         time.Time `gorm:"index"`
	Version           int64     `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (OfferDTO) TableName() string {
	return "offers"
}

func fromDomain(o *offer.Offer) OfferDTO {
	return OfferDTO{
		ID:                o.ID().Bytes(),
		ShipmentID:        o.ShipmentID().Bytes(),
		CarrierID:         o.CarrierID().Bytes(),
		Price:             o.Price().Decimal(),
		Commission:        o.Commission().Decimal(),
		Rate:              o.Rate().Decimal(),
		EstimatedDelivery: o.EstimatedDelivery(),
		Message:           o.Message(),
		Status:            o.Status().String(),
		ExpiresAt:         o.ExpiresAt(),
		Version:           o.Version(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func toDomain(dto OfferDTO) (*offer.Offer, error) {
	id, idErr := pgmap.ToUUID(dto.ID)
	shipmentID, shipmentErr := pgmap.ToUUID(dto.ShipmentID)
	carrierID, carrierErr := pgmap.ToUUID(dto.CarrierID)
	price, priceErr := kernel.NewMoney(dto.Price)
	commission, commissionErr := kernel.NewMoney(dto.Commission)
	rate, rateErr := kernel.NewCommissionRate(dto.Rate)
	status, statusErr := offer.ParseStatus(dto.Status)
	if err := errors.Join(idErr, shipmentErr, carrierErr, priceErr, commissionErr, rateErr, statusErr); err != nil {
		return nil, err
	}

	return offer.RestoreOffer(offer.State{
		ID:                id,
		ShipmentID:        shipmentID,
		CarrierID:         carrierID,
		Price:             price,
		Commission:        commission,
		Rate:              rate,
		EstimatedDelivery: dto.EstimatedDelivery.UTC(),
		Message:           dto.Message,
		Status:            status,
		ExpiresAt:         dto.ExpiresAt.UTC(),
		Version:           dto.Version,
		CreatedAt:         dto.CreatedAt.UTC(),
		UpdatedAt:         dto.UpdatedAt.UTC(),
	})
}

func toDomainList(dtos []OfferDTO) ([]*offer.Offer, error) {
	offers := make([]*offer.Offer, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}
