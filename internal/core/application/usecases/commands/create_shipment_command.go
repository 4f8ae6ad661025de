package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand publishes a new shipment for the acting sender.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	route      shipment.Route
	cargo      shipment.Cargo
	budget     shipment.Budget
	pickupDate *time.Time

	guard guard.ConstructorGuard
}

func NewCreateShipmentCommand(
	actor kernel.Actor,
	route shipment.Route,
	cargo shipment.Cargo,
	budget shipment.Budget,
	pickupDate *time.Time,
) (CreateShipmentCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		route.Validate(),
		cargo.Validate(),
		budget.Validate(),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return CreateShipmentCommand{
		actor:      actor,
		route:      route,
		cargo:      cargo,
		budget:     budget,
		pickupDate: pickupDate,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateShipmentCommand) Route() shipment.Route {
	return c.route
}

func (c CreateShipmentCommand) Cargo() shipment.Cargo {
	return c.cargo
}

func (c CreateShipmentCommand) Budget() shipment.Budget {
	return c.budget
}

func (c CreateShipmentCommand) PickupDate() *time.Time {
	return c.pickupDate
}
