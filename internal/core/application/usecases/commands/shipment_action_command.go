package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrShipmentActionCommandIsNotConstructed = errors.New(
	"ShipmentActionCommand must be created via NewShipmentActionCommand constructor",
)

// ShipmentActionCommand addresses one shipment on behalf of an actor. Used by
// cancelAcceptedOffer and settle.
type ShipmentActionCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewShipmentActionCommand(actor kernel.Actor, shipmentID kernel.UUID) (ShipmentActionCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return ShipmentActionCommand{}, err
	}

	return ShipmentActionCommand{
		actor:      actor,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ShipmentActionCommand) Validate() error {
	return c.guard.Validate(ErrShipmentActionCommandIsNotConstructed)
}

func (c ShipmentActionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ShipmentActionCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
