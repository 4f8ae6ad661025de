package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrOfferActionCommandIsNotConstructed = errors.New(
	"OfferActionCommand must be created via NewOfferActionCommand constructor",
)

// OfferActionCommand addresses one offer of one shipment. It carries the
// reject and withdraw operations, which differ only in who may run them.
type OfferActionCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	shipmentID kernel.UUID
	offerID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewOfferActionCommand(actor kernel.Actor, shipmentID, offerID kernel.UUID) (OfferActionCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), offerID.Validate()); err != nil {
		return OfferActionCommand{}, err
	}

	return OfferActionCommand{
		actor:      actor,
		shipmentID: shipmentID,
		offerID:    offerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c OfferActionCommand) Validate() error {
	return c.guard.Validate(ErrOfferActionCommandIsNotConstructed)
}

func (c OfferActionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c OfferActionCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c OfferActionCommand) OfferID() kernel.UUID {
	return c.offerID
}
