package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// RecordTrackingStatusResult is the shipment after the move, the event that
// recorded it and, on completion, the settlement performed with it.
type RecordTrackingStatusResult struct {
	Shipment   *shipment.Shipment
	Event      *tracking.Event
	Settlement *services.Settlement
}

// RecordTrackingStatusCommandHandler moves a shipment along the fulfillment
// table and appends the tracking event. Reaching completed settles the
// carrier in the same transaction.
//
// Who may record:
//   - the assigned carrier or one of its drivers, any status
//   - the shipment owner, completed only
//   - an admin, any status
type RecordTrackingStatusCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewRecordTrackingStatusCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) RecordTrackingStatusCommandHandler {
	return RecordTrackingStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h RecordTrackingStatusCommandHandler) Handle(
	ctx context.Context,
	cmd RecordTrackingStatusCommand,
) (*RecordTrackingStatusResult, error) {
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
	next := cmd.Status()
	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}
	if err = authorizeTracking(s, actor, next); err != nil {
		return nil, err
	}
	if next == shipment.Pending || next == shipment.Accepted {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "record "+next.String()+" on")
	}
	if _, err = s.Status().TransitionTo(next); err != nil {
		return nil, err
	}

	now := h.clock()
	ledger := newAgreementLedger(uow)
	var carrierID *kernel.UUID
	if s.CarrierID() != nil {
		id := *s.CarrierID()
		carrierID = &id
	}

	var bidders []kernel.UUID
	if next == shipment.Cancelled {
		if bidders, err = ledger.cancelPendingOffers(ctx, s, now); err != nil {
			return nil, err
		}
		if _, err = ledger.revoke(ctx, s, now); err != nil {
			return nil, err
		}
	} else if s.AcceptedOfferID() != nil {
		if err = ledger.acceptImplicitly(ctx, s, now); err != nil {
			return nil, err
		}
	}

	if err = s.MoveTo(next, cmd.Note(), now); err != nil {
		return nil, err
	}

	var settlement *services.Settlement
	if next == shipment.Completed {
		if settlement, err = settle(ctx, uow, s, now); err != nil {
			return nil, err
		}
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	event, err := appendEvent(ctx, uow.TrackingRepository(), s, cmd.Location(), cmd.Note(), actor, now)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, trackingNotifications(s, carrierID, actor, settlement)...)
	notifyAll(ctx, h.notifier, cancellationNotifications(s, bidders)...)
	return &RecordTrackingStatusResult{Shipment: s, Event: event, Settlement: settlement}, nil
}

func authorizeTracking(s *shipment.Shipment, actor kernel.Actor, next shipment.Status) error {
	switch {
	case actor.IsAdmin():
		return nil
	case s.CarrierID() != nil && actor.ActsFor(*s.CarrierID()):
		return nil
	case s.IsOwnedBy(actor.ID()) && next == shipment.Completed:
		return nil
	default:
		return forbidden(actor, "record "+next.String()+" on shipment "+s.ID().String())
	}
}

// trackingNotifications tells the party that did not act about the move.
func trackingNotifications(
	s *shipment.Shipment,
	carrierID *kernel.UUID,
	actor kernel.Actor,
	settlement *services.Settlement,
) []ports.Notification {
	payload := map[string]string{
		"shipmentId": s.ID().String(),
		"status":     s.Status().String(),
	}

	out := make([]ports.Notification, 0, 3)
	if !s.IsOwnedBy(actor.ID()) {
		out = append(out, ports.Notification{UserID: s.OwnerID(), Event: ports.EventShipmentStatus, Payload: payload})
	}
	if carrierID != nil && !actor.ActsFor(*carrierID) {
		out = append(out, ports.Notification{UserID: *carrierID, Event: ports.EventShipmentStatus, Payload: payload})
	}
	if settlement != nil && settlement.Settled {
		out = append(out, settlementNotification(s, settlement))
	}
	return out
}
