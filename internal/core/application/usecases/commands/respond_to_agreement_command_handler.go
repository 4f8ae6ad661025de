package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// RespondToAgreementResult is the agreement after the response together with
// the shipment it moved.
type RespondToAgreementResult struct {
	Agreement *agreement.Agreement
	Shipment  *shipment.Shipment
}

// RespondToAgreementCommandHandler records the carrier's answer to a pending
// agreement. Accepting starts fulfillment and accepts the commission;
// rejecting cancels the accepted offer and reopens the shipment.
type RespondToAgreementCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewRespondToAgreementCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) RespondToAgreementCommandHandler {
	return RespondToAgreementCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h RespondToAgreementCommandHandler) Handle(
	ctx context.Context,
	cmd RespondToAgreementCommand,
) (*RespondToAgreementResult, error) {
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

	agreements := uow.AgreementRepository()
	found, err := agreements.Get(ctx, cmd.AgreementID())
	if err != nil {
		return nil, err
	}

	// Lock order is shipment first, so the agreement is read again after the
	// lock is held.
	s, err := uow.ShipmentRepository().GetForUpdate(ctx, found.ShipmentID())
	if err != nil {
		return nil, err
	}
	a, err := agreements.Get(ctx, found.ID())
	if err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if !actor.ActsFor(a.CarrierID()) && !actor.IsAdmin() {
		return nil, forbidden(actor, "respond to agreement "+a.ID().String())
	}
	if !a.IsPending() {
		return nil, errs.NewInvalidStateError("agreement", a.Status().String(), "respond to")
	}
	if s.Status() != shipment.Accepted || s.AcceptedOfferID() == nil || !s.AcceptedOfferID().IsEqual(a.OfferID()) {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "respond to the agreement of")
	}

	now := h.clock()
	ledger := newAgreementLedger(uow)
	event := ports.EventAgreementAccepted
	if cmd.Accept() {
		err = acceptAgreement(ctx, ledger, a, s, now)
	} else {
		event = ports.EventAgreementRejected
		err = rejectAgreement(ctx, ledger, a, s, now)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}
	if _, err = appendEvent(ctx, uow.TrackingRepository(), s, "", "agreement "+a.Status().String(), actor, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, ports.Notification{
		UserID: a.SenderID(),
		Event:  event,
		Payload: map[string]string{
			"shipmentId":  s.ID().String(),
			"agreementId": a.ID().String(),
		},
	})
	return &RespondToAgreementResult{Agreement: a, Shipment: s}, nil
}

func acceptAgreement(
	ctx context.Context,
	ledger agreementLedger,
	a *agreement.Agreement,
	s *shipment.Shipment,
	now time.Time,
) error {
	c, err := ledger.agreements.GetCommissionByAgreementID(ctx, a.ID())
	if err != nil {
		return err
	}
	if err = a.Accept(now); err != nil {
		return err
	}
	if err = c.Accept(now); err != nil {
		return err
	}
	if err = s.MoveTo(shipment.InProgress, "", now); err != nil {
		return err
	}
	if err = ledger.agreements.Update(ctx, a); err != nil {
		return err
	}
	return ledger.agreements.UpdateCommission(ctx, c)
}

// rejectAgreement persists the rejection before revoke reloads the agreement,
// so revoke sees it already rejected and only cancels the offer.
func rejectAgreement(
	ctx context.Context,
	ledger agreementLedger,
	a *agreement.Agreement,
	s *shipment.Shipment,
	now time.Time,
) error {
	if err := a.Reject(now); err != nil {
		return err
	}
	if err := ledger.agreements.Update(ctx, a); err != nil {
		return err
	}
	if _, err := ledger.revoke(ctx, s, now); err != nil {
		return err
	}
	return s.Reopen(now)
}
