package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	shipmentID kernel.UUID
	offerID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptOfferCommand(actor kernel.Actor, shipmentID, offerID kernel.UUID) (AcceptOfferCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), offerID.Validate()); err != nil {
		return AcceptOfferCommand{}, err
	}

	return AcceptOfferCommand{
		actor:      actor,
		shipmentID: shipmentID,
		offerID:    offerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

func (c AcceptOfferCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AcceptOfferCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c AcceptOfferCommand) OfferID() kernel.UUID {
	return c.offerID
}
