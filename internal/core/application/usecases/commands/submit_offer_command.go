package commands

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrSubmitOfferCommandIsNotConstructed = errors.New(
	"SubmitOfferCommand must be created via NewSubmitOfferCommand constructor",
)

type SubmitOfferCommand struct { //nolint:recvcheck //using for validation
	actor             kernel.Actor
	shipmentID        kernel.UUID
	price             kernel.Money
	estimatedDelivery time.Time
	message           string

	guard guard.ConstructorGuard
}

func NewSubmitOfferCommand(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	price kernel.Money,
	estimatedDelivery time.Time,
	message string,
) (SubmitOfferCommand, error) {
	var etaErr error
	if estimatedDelivery.IsZero() {
		etaErr = errs.NewValueIsRequiredError("estimatedDelivery")
	}

	if err := errors.Join(
		actor.Validate(),
		shipmentID.Validate(),
		price.Validate(),
		etaErr,
	); err != nil {
		return SubmitOfferCommand{}, err
	}

	return SubmitOfferCommand{
		actor:             actor,
		shipmentID:        shipmentID,
		price:             price,
		estimatedDelivery: estimatedDelivery,
		message:           strings.TrimSpace(message),
		guard:             guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitOfferCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOfferCommandIsNotConstructed)
}

func (c SubmitOfferCommand) Actor() kernel.Actor {
	return c.actor
}

func (c SubmitOfferCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c SubmitOfferCommand) Price() kernel.Money {
	return c.price
}

func (c SubmitOfferCommand) EstimatedDelivery() time.Time {
	return c.estimatedDelivery
}

func (c SubmitOfferCommand) Message() string {
	return c.message
}
