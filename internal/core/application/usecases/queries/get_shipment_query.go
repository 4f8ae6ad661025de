// Package queries contains read operations. Queries read straight from the
// database through GORM and return flat views shaped for the HTTP layer.
package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery reads one shipment. The owner, admins and every carrier or
// driver may see it; carriers need open loads to bid on them.
type GetShipmentQuery struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewGetShipmentQuery(actor kernel.Actor, shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{actor: actor, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// ShipmentView is the read model of a shipment. It is also the cached form,
// so it carries JSON tags.
type ShipmentView struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"ownerId"`
	PickupAddress     string     `json:"pickupAddress"`
	PickupCity        string     `json:"pickupCity"`
	DeliveryAddress   string     `json:"deliveryAddress"`
	DeliveryCity      string     `json:"deliveryCity"`
	CargoDescription  string     `json:"cargoDescription"`
	CargoWeightKg     float64    `json:"cargoWeightKg"`
	CargoType         string     `json:"cargoType"`
	BudgetMin         string     `json:"budgetMin"`
	BudgetMax         string     `json:"budgetMax"`
	PickupDate        *time.Time `json:"pickupDate,omitempty"`
	Status            string     `json:"status"`
	AcceptedOfferID   *string    `json:"acceptedOfferId,omitempty"`
	CarrierID         *string    `json:"carrierId,omitempty"`
	Price             *string    `json:"price,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	CancelReason      string     `json:"cancelReason,omitempty"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
