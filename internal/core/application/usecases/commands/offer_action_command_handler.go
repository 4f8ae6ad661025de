package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// RejectOfferCommandHandler lets the shipment owner turn down one pending
// offer. Nothing else on the shipment changes.
type RejectOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewRejectOfferCommandHandler(uowFactory UoWFactory, notifier ports.Notifier, clock Clock) RejectOfferCommandHandler {
	return RejectOfferCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

func (h RejectOfferCommandHandler) Handle(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	o, err := changeOffer(ctx, h.uowFactory, cmd,
		func(s *shipment.Shipment, _ *offer.Offer, actor kernel.Actor) error {
			if !s.IsOwnedBy(actor.ID()) && !actor.IsAdmin() {
				return forbidden(actor, "reject offers on shipment "+s.ID().String())
			}
			return nil
		},
		func(o *offer.Offer) error { return o.Reject(h.clock()) },
	)
	if err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, offerNotification(o, o.CarrierID(), ports.EventOfferRejected))
	return o, nil
}

// WithdrawOfferCommandHandler lets a carrier take back its own pending offer.
type WithdrawOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewWithdrawOfferCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) WithdrawOfferCommandHandler {
	return WithdrawOfferCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

func (h WithdrawOfferCommandHandler) Handle(ctx context.Context, cmd OfferActionCommand) (*offer.Offer, error) {
	var ownerID kernel.UUID
	o, err := changeOffer(ctx, h.uowFactory, cmd,
		func(s *shipment.Shipment, o *offer.Offer, actor kernel.Actor) error {
			if !actor.ActsFor(o.CarrierID()) {
				return forbidden(actor, "withdraw offer "+o.ID().String())
			}
			ownerID = s.OwnerID()
			return nil
		},
		func(o *offer.Offer) error {
			if !o.IsPending() {
				return errs.NewInvalidStateError("offer", o.Status().String(), "withdraw")
			}
			return o.Cancel(h.clock())
		},
	)
	if err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, offerNotification(o, ownerID, ports.EventOfferWithdrawn))
	return o, nil
}

// changeOffer runs one offer mutation under the shipment row lock so it
// serializes with acceptance of the same shipment.
func changeOffer(
	ctx context.Context,
	uowFactory UoWFactory,
	cmd OfferActionCommand,
	authorize func(*shipment.Shipment, *offer.Offer, kernel.Actor) error,
	mutate func(*offer.Offer) error,
) (*offer.Offer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := uowFactory.Create()
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
	offerRepo := uow.OfferRepository()
	o, err := offerRepo.Get(ctx, cmd.OfferID())
	if err != nil {
		return nil, err
	}
	if !o.BelongsTo(s.ID()) {
		return nil, errs.NewObjectNotFoundError("offer", cmd.OfferID())
	}

	if err = authorize(s, o, cmd.Actor()); err != nil {
		return nil, err
	}
	if err = mutate(o); err != nil {
		return nil, err
	}
	if err = offerRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func offerNotification(o *offer.Offer, to kernel.UUID, event string) ports.Notification {
	return ports.Notification{
		UserID: to,
		Event:  event,
		Payload: map[string]string{
			"shipmentId": o.ShipmentID().String(),
			"offerId":    o.ID().String(),
		},
	}
}
