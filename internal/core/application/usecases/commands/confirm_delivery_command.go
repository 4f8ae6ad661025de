package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	shipmentID kernel.UUID
	note       string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(actor kernel.Actor, shipmentID kernel.UUID, note string) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return ConfirmDeliveryCommand{
		actor:      actor,
		shipmentID: shipmentID,
		note:       strings.TrimSpace(note),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmDeliveryCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c ConfirmDeliveryCommand) Note() string {
	return c.note
}
