package commands

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// SubmitOfferCommandHandler records a carrier's bid on an open shipment. A
// carrier holds at most one pending offer per shipment.
type SubmitOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
	rate       kernel.CommissionRate
	ttl        time.Duration
}

func NewSubmitOfferCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
	rate kernel.CommissionRate,
	ttl time.Duration,
) SubmitOfferCommandHandler {
	return SubmitOfferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		rate:       rate,
		ttl:        ttl,
	}
}

func (h SubmitOfferCommandHandler) Handle(ctx context.Context, cmd SubmitOfferCommand) (*offer.Offer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	carrierID, ok := actor.CarrierID()
	if !ok {
		return nil, forbidden(actor, "submit offers")
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
	if s.IsOwnedBy(actor.ID()) || s.IsOwnedBy(carrierID) {
		return nil, forbidden(actor, "bid on its own shipment")
	}
	if !s.IsOpenForOffers() {
		return nil, shipmentNotOpen(s, "submit an offer to")
	}

	offerRepo := uow.OfferRepository()
	duplicate, err := offerRepo.HasPendingFromCarrier(ctx, s.ID(), carrierID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, fmt.Errorf("%w: %w", ErrDuplicateOffer,
			errs.NewConflictError("offer", "carrier "+carrierID.String()+" already has a pending offer"))
	}

	now := h.clock()
	o, err := offer.NewOffer(
		kernel.NewUUID(), s.ID(), carrierID, cmd.Price(), cmd.EstimatedDelivery(), cmd.Message(), h.rate, now, h.ttl,
	)
	if err != nil {
		return nil, err
	}
	if err = offerRepo.Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, ports.Notification{
		UserID: s.OwnerID(),
		Event:  ports.EventOfferReceived,
		Payload: map[string]string{
			"shipmentId": s.ID().String(),
			"offerId":    o.ID().String(),
			"price":      o.Price().String(),
		},
	})
	return o, nil
}
