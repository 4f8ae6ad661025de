// Package shipmentrepo persists shipment aggregates. The version column backs
// the compare-and-swap in Update and the row lock in GetForUpdate serializes
// every marketplace operation on one shipment.
package shipmentrepo

import (
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/pgmap"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentDTO is the row layout of the shipments table.
type ShipmentDTO struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OwnerID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	Pickup            PlaceDTO         `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery          PlaceDTO         `gorm:"embedded;embeddedPrefix:delivery_"`
	Cargo             CargoDTO         `gorm:"embedded;embeddedPrefix:cargo_"`
	BudgetMin         decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	BudgetMax         decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	PickupDate        *time.Time
	Status            string           `gorm:"type:varchar(16);not null;index"`
	AcceptedOfferID   *uuid.UUID       `gorm:"type:uuid"`
	CarrierID         *uuid.UUID       `gorm:"type:uuid;index"`
	Price             *decimal.Decimal `gorm:"type:numeric(14,2)"`
	EstimatedDelivery *time.Time
	CancelReason      string
	Version           int64 `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type PlaceDTO struct {
	Address string
	City    string `gorm:"index"`
}

type CargoDTO struct {
	Description string
	WeightKg    float64
	Type        string `gorm:"type:varchar(32)"`
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:      s.ID().Bytes(),
		OwnerID: s.OwnerID().Bytes(),
		Pickup: PlaceDTO{
			Address: s.Route().Pickup().Address(),
			City:    s.Route().Pickup().City(),
		},
		Delivery: PlaceDTO{
			Address: s.Route().Delivery().Address(),
			City:    s.Route().Delivery().City(),
		},
		Cargo: CargoDTO{
			Description: s.Cargo().Description(),
			WeightKg:    s.Cargo().WeightKg(),
			Type:        s.Cargo().Type(),
		},
		BudgetMin:         s.Budget().Min().Decimal(),
		BudgetMax:         s.Budget().Max().Decimal(),
		PickupDate:        s.PickupDate(),
		Status:            s.Status().String(),
		AcceptedOfferID:   pgmap.UUIDPtr(s.AcceptedOfferID()),
		CarrierID:         pgmap.UUIDPtr(s.CarrierID()),
		Price:             pgmap.MoneyPtr(s.Price()),
		EstimatedDelivery: s.EstimatedDelivery(),
		CancelReason:      s.CancelReason(),
		Version:           s.Version(),
		CreatedAt:         s.CreatedAt(),
		UpdatedAt:         s.UpdatedAt(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	route, err := toRoute(dto.Pickup, dto.Delivery)
	if err != nil {
		return nil, err
	}
	cargo, err := shipment.NewCargo(dto.Cargo.Description, dto.Cargo.WeightKg, dto.Cargo.Type)
	if err != nil {
		return nil, err
	}
	budget, err := toBudget(dto.BudgetMin, dto.BudgetMax)
	if err != nil {
		return nil, err
	}

	id, idErr := pgmap.ToUUID(dto.ID)
	ownerID, ownerErr := pgmap.ToUUID(dto.OwnerID)
	offerID, offerErr := pgmap.ToUUIDPtr(dto.AcceptedOfferID)
	carrierID, carrierErr := pgmap.ToUUIDPtr(dto.CarrierID)
	price, priceErr := pgmap.ToMoneyPtr(dto.Price)
	status, statusErr := shipment.ParseStatus(dto.Status)
	if err := errors.Join(idErr, ownerErr, offerErr, carrierErr, priceErr, statusErr); err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(shipment.State{
		ID:                id,
		OwnerID:           ownerID,
		Route:             route,
		Cargo:             cargo,
		Budget:            budget,
		PickupDate:        utcPtr(dto.PickupDate),
		Status:            status,
		AcceptedOfferID:   offerID,
		CarrierID:         carrierID,
		Price:             price,
		EstimatedDelivery: utcPtr(dto.EstimatedDelivery),
		CancelReason:      dto.CancelReason,
		Version:           dto.Version,
		CreatedAt:         dto.CreatedAt.UTC(),
		UpdatedAt:         dto.UpdatedAt.UTC(),
	})
}

func toRoute(pickup, delivery PlaceDTO) (shipment.Route, error) {
	from, err := shipment.NewPlace(pickup.Address, pickup.City)
	if err != nil {
		return shipment.Route{}, err
	}
	to, err := shipment.NewPlace(delivery.Address, delivery.City)
	if err != nil {
		return shipment.Route{}, err
	}
	return shipment.NewRoute(from, to)
}

func toBudget(minPrice, maxPrice decimal.Decimal) (shipment.Budget, error) {
	lo, err := kernel.NewMoney(minPrice)
	if err != nil {
		return shipment.Budget{}, err
	}
	hi, err := kernel.NewMoney(maxPrice)
	if err != nil {
		return shipment.Budget{}, err
	}
	return shipment.NewBudget(lo, hi)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
