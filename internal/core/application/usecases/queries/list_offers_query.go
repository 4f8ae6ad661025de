package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListOffersQueryIsNotConstructed = errors.New(
	"ListOffersQuery must be created via NewListOffersQuery constructor",
)

// ListOffersQuery lists the offer book of a shipment. The owner and admins
// see every offer, a carrier only its own.
type ListOffersQuery struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewListOffersQuery(actor kernel.Actor, shipmentID kernel.UUID) (ListOffersQuery, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return ListOffersQuery{}, err
	}
	return ListOffersQuery{actor: actor, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOffersQuery) Validate() error {
	return q.guard.Validate(ErrListOffersQueryIsNotConstructed)
}

func (q ListOffersQuery) Actor() kernel.Actor {
	return q.actor
}

func (q ListOffersQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

type OfferView struct {
	ID                string    `json:"id"`
	ShipmentID        string    `json:"shipmentId"`
	CarrierID         string    `json:"carrierId"`
	Price             string    `json:"price"`
	Commission        string    `json:"commission"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	Message           string    `json:"message,omitempty"`
	Status            string    `json:"status"`
	ExpiresAt         time.Time `json:"expiresAt"`
	CreatedAt         time.Time `json:"createdAt"`
}
