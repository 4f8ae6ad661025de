package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
)

// CreateShipmentCommandHandler publishes shipments. Only senders (and
// admins) may publish; the first tracking event records the publication.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	clock      Clock
}

func NewCreateShipmentCommandHandler(uowFactory ShipmentUoWFactory, clock Clock) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h CreateShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd CreateShipmentCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if !actor.IsSender() && !actor.IsAdmin() {
		return nil, forbidden(actor, "publish shipments")
	}

	now := h.clock()
	s, err := shipment.NewShipment(
		kernel.NewUUID(), actor.ID(), cmd.Route(), cmd.Cargo(), cmd.Budget(), cmd.PickupDate(), now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Add(ctx, s); err != nil {
		return nil, err
	}
	if _, err = appendEvent(
		ctx, uow.TrackingRepository(), s, s.Route().Pickup().String(), "shipment published", actor, now,
	); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
