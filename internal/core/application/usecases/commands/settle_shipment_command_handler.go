package commands

import (
	"context"

	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// SettleShipmentCommandHandler is the reconciliation entry point for
// settlement. A shipment already settled reports Settled=false and changes
// nothing.
type SettleShipmentCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewSettleShipmentCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) SettleShipmentCommandHandler {
	return SettleShipmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h SettleShipmentCommandHandler) Handle(
	ctx context.Context,
	cmd ShipmentActionCommand,
) (*services.Settlement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Actor().IsAdmin() {
		return nil, forbidden(cmd.Actor(), "settle shipments")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	result, err := settle(ctx, uow, s, h.clock())
	if err != nil {
		return nil, err
	}
	if !result.Settled {
		return result, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, settlementNotification(s, result))
	return result, nil
}
