package commands

import (
	"context"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
)

// ConfirmDeliveryCommandHandler is the sender's way to complete a shipment.
// It records completed through the tracking handler after an ownership check.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	tracker    RecordTrackingStatusCommandHandler
}

func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		tracker:    NewRecordTrackingStatusCommandHandler(uowFactory, notifier, clock),
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmDeliveryCommand,
) (*RecordTrackingStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if err := h.checkOwner(ctx, cmd); err != nil {
		return nil, err
	}

	record, err := NewRecordTrackingStatusCommand(actor, cmd.ShipmentID(), shipment.Completed, "", cmd.Note())
	if err != nil {
		return nil, err
	}
	return h.tracker.Handle(ctx, record)
}

// checkOwner reads the shipment outside the tracking transaction. Ownership
// never changes, so the unlocked read is enough.
func (h ConfirmDeliveryCommandHandler) checkOwner(ctx context.Context, cmd ConfirmDeliveryCommand) error {
	uow := h.uowFactory.Create()
	s, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}
	if !s.IsOwnedBy(cmd.Actor().ID()) {
		return forbidden(cmd.Actor(), "confirm delivery of shipment "+s.ID().String())
	}
	return nil
}
