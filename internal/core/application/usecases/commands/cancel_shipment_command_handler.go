package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CancelShipmentCommandHandler cancels a shipment before its cargo is picked
// up. Open offers are cancelled with it; an accepted offer is revoked and its
// agreement terminated.
type CancelShipmentCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewCancelShipmentCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h CancelShipmentCommandHandler) Handle(ctx context.Context, cmd CancelShipmentCommand) (*shipment.Shipment, error) {
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
	now := h.clock()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}
	if !s.IsOwnedBy(actor.ID()) && !actor.IsAdmin() {
		return nil, forbidden(actor, "cancel shipment "+s.ID().String())
	}
	if !s.Status().IsCancellableBySender() {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "cancel")
	}

	ledger := newAgreementLedger(uow)
	notified, err := ledger.cancelPendingOffers(ctx, s, now)
	if err != nil {
		return nil, err
	}

	revoked, err := ledger.revoke(ctx, s, now)
	if err != nil {
		return nil, err
	}
	if revoked != nil {
		notified = append(notified, revoked.CarrierID())
	}

	if err = s.Cancel(cmd.Reason(), now); err != nil {
		return nil, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	if _, err = appendEvent(ctx, uow.TrackingRepository(), s, "", cmd.Reason(), actor, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, cancellationNotifications(s, notified)...)
	return s, nil
}

func cancellationNotifications(s *shipment.Shipment, carriers []kernel.UUID) []ports.Notification {
	out := make([]ports.Notification, 0, len(carriers))
	for _, carrierID := range carriers {
		out = append(out, ports.Notification{
			UserID: carrierID,
			Event:  ports.EventShipmentCancelled,
			Payload: map[string]string{
				"shipmentId": s.ID().String(),
				"reason":     s.CancelReason(),
			},
		})
	}
	return out
}
