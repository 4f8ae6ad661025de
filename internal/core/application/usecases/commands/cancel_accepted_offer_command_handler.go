package commands

import (
	"context"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CancelAcceptedOfferCommandHandler backs out of an assignment before the
// cargo moves. The accepted offer is cancelled, its agreement terminated and
// the shipment reopened for new offers.
type CancelAcceptedOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewCancelAcceptedOfferCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) CancelAcceptedOfferCommandHandler {
	return CancelAcceptedOfferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h CancelAcceptedOfferCommandHandler) Handle(
	ctx context.Context,
	cmd ShipmentActionCommand,
) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor := cmd.Actor()
	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	isOwner := s.IsOwnedBy(actor.ID())
	isCarrier := s.CarrierID() != nil && actor.ActsFor(*s.CarrierID())
	if !isOwner && !isCarrier && !actor.IsAdmin() {
		return nil, forbidden(actor, "cancel the accepted offer of shipment "+s.ID().String())
	}
	if s.Status() != shipment.Accepted && s.Status() != shipment.InProgress {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "cancel the accepted offer of")
	}

	carrierID := *s.CarrierID()
	now := h.clock()
	if _, err = newAgreementLedger(uow).revoke(ctx, s, now); err != nil {
		return nil, err
	}
	if err = s.Reopen(now); err != nil {
		return nil, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	if _, err = appendEvent(ctx, uow.TrackingRepository(), s, "", "accepted offer cancelled", actor, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	counterparty := s.OwnerID()
	if !isCarrier {
		counterparty = carrierID
	}
	notifyAll(ctx, h.notifier, ports.Notification{
		UserID: counterparty,
		Event:  ports.EventAssignmentCancelled,
		Payload: map[string]string{
			"shipmentId":  s.ID().String(),
			"cancelledBy": actor.ID().String(),
		},
	})
	return s, nil
}
