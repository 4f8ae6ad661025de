// Package agreementrepo persists agreements and the commissions derived from
// them. Both tables carry a unique key on their parent id, so a second
// agreement for one offer or a second commission for one agreement is a
// Conflict.
package agreementrepo

import (
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/pgmap"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AgreementDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OfferID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ShipmentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SenderID        uuid.UUID       `gorm:"type:uuid;not null"`
	CarrierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgreedPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Commission      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CarrierReceives decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          string          `gorm:"type:varchar(16);not null"`
	RespondedAt     *time.Time
	Version         int64 `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func (AgreementDTO) TableName() string {
	return "agreements"
}

type CommissionDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AgreementID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ShipmentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CarrierID       uuid.UUID       `gorm:"type:uuid;not null"`
	Rate            decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	AgreedPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CarrierReceives decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	Version         int64 `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func (CommissionDTO) TableName() string {
	return "commissions"
}

func agreementFromDomain(a *agreement.Agreement) AgreementDTO {
	return AgreementDTO{
		ID:              a.ID().Bytes(),
		OfferID:         a.OfferID().Bytes(),
		ShipmentID:      a.ShipmentID().Bytes(),
		SenderID:        a.SenderID().Bytes(),
		CarrierID:       a.CarrierID().Bytes(),
		AgreedPrice:     a.AgreedPrice().Decimal(),
		Commission:      a.Commission().Decimal(),
		CarrierReceives: a.CarrierReceives().Decimal(),
		Status:          a.Status().String(),
		RespondedAt:     a.RespondedAt(),
		Version:         a.Version(),
		CreatedAt:       a.CreatedAt(),
	}
}

func agreementToDomain(dto AgreementDTO) (*agreement.Agreement, error) {
	id, idErr := pgmap.ToUUID(dto.ID)
	offerID, offerErr := pgmap.ToUUID(dto.OfferID)
	shipmentID, shipmentErr := pgmap.ToUUID(dto.ShipmentID)
	senderID, senderErr := pgmap.ToUUID(dto.SenderID)
	carrierID, carrierErr := pgmap.ToUUID(dto.CarrierID)
	price, priceErr := kernel.NewMoney(dto.AgreedPrice)
	commission, commissionErr := kernel.NewMoney(dto.Commission)
	receives, receivesErr := kernel.NewMoney(dto.CarrierReceives)
	status, statusErr := agreement.ParseStatus(dto.Status)
	if err := errors.Join(
		idErr, offerErr, shipmentErr, senderErr, carrierErr,
		priceErr, commissionErr, receivesErr, statusErr,
	); err != nil {
		return nil, err
	}

	return agreement.RestoreAgreement(agreement.AgreementState{
		ID:              id,
		OfferID:         offerID,
		ShipmentID:      shipmentID,
		SenderID:        senderID,
		CarrierID:       carrierID,
		AgreedPrice:     price,
		Commission:      commission,
		CarrierReceives: receives,
		Status:          status,
		RespondedAt:     utcPtr(dto.RespondedAt),
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt.UTC(),
	})
}

func commissionFromDomain(c *agreement.Commission) CommissionDTO {
	return CommissionDTO{
		ID:              c.ID().Bytes(),
		AgreementID:     c.AgreementID().Bytes(),
		ShipmentID:      c.ShipmentID().Bytes(),
		CarrierID:       c.CarrierID().Bytes(),
		Rate:            c.Rate().Decimal(),
		AgreedPrice:     c.AgreedPrice().Decimal(),
		Amount:          c.Amount().Decimal(),
		CarrierReceives: c.CarrierReceives().Decimal(),
		Status:          c.Status().String(),
		AcceptedAt:      c.AcceptedAt(),
		CompletedAt:     c.CompletedAt(),
		Version:         c.Version(),
		CreatedAt:       c.CreatedAt(),
	}
}

func commissionToDomain(dto CommissionDTO) (*agreement.Commission, error) {
	id, idErr := pgmap.ToUUID(dto.ID)
	agreementID, agreementErr := pgmap.ToUUID(dto.AgreementID)
	shipmentID, shipmentErr := pgmap.ToUUID(dto.ShipmentID)
	carrierID, carrierErr := pgmap.ToUUID(dto.CarrierID)
	rate, rateErr := kernel.NewCommissionRate(dto.Rate)
	price, priceErr := kernel.NewMoney(dto.AgreedPrice)
	amount, amountErr := kernel.NewMoney(dto.Amount)
	receives, receivesErr := kernel.NewMoney(dto.CarrierReceives)
	status, statusErr := agreement.ParseCommissionStatus(dto.Status)
	if err := errors.Join(
		idErr, agreementErr, shipmentErr, carrierErr, rateErr,
		priceErr, amountErr, receivesErr, statusErr,
	); err != nil {
		return nil, err
	}

	return agreement.RestoreCommission(agreement.CommissionState{
		ID:              id,
		AgreementID:     agreementID,
		ShipmentID:      shipmentID,
		CarrierID:       carrierID,
		Rate:            rate,
		AgreedPrice:     price,
		Amount:          amount,
		CarrierReceives: receives,
		Status:          status,
		AcceptedAt:      utcPtr(dto.AcceptedAt),
		CompletedAt:     utcPtr(dto.CompletedAt),
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt.UTC(),
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
