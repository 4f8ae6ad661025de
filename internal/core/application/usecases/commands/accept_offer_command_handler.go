package commands

import (
	"context"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// AcceptOfferResult is everything acceptOffer changed.
type AcceptOfferResult struct {
	Shipment   *shipment.Shipment
	Offer      *offer.Offer
	Rejected   []*offer.Offer
	Agreement  *agreement.Agreement
	Commission *agreement.Commission
}

// AcceptOfferCommandHandler accepts one offer of a pending shipment, rejects
// the rest and opens the agreement with its commission. The whole step runs
// under the shipment row lock, so two concurrent acceptances of the same
// shipment cannot both succeed.
type AcceptOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      Clock
	matcher    services.OfferMatcher
}

func NewAcceptOfferCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock Clock,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		matcher:    services.NewOfferMatcher(),
	}
}

func (h AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) (*AcceptOfferResult, error) {
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

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	offerRepo := uow.OfferRepository()
	offers, err := offerRepo.ListByShipment(ctx, s.ID())
	if err != nil {
		return nil, err
	}

	now := h.clock()
	match, err := h.matcher.Accept(s, offers, cmd.OfferID(), cmd.Actor(), now)
	if err != nil {
		return nil, err
	}

	if err = offerRepo.Update(ctx, match.Accepted); err != nil {
		return nil, err
	}
	for _, o := range match.Rejected {
		if err = offerRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}

	a, c, err := newAgreementLedger(uow).createFromOffer(ctx, match.Accepted, s.OwnerID(), now)
	if err != nil {
		return nil, err
	}
	if _, err = appendEvent(ctx, uow.TrackingRepository(), s, "", "offer accepted", cmd.Actor(), now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notifyAll(ctx, h.notifier, matchNotifications(s, match)...)
	return &AcceptOfferResult{
		Shipment:   s,
		Offer:      match.Accepted,
		Rejected:   match.Rejected,
		Agreement:  a,
		Commission: c,
	}, nil
}

func matchNotifications(s *shipment.Shipment, match *services.MatchResult) []ports.Notification {
	out := make([]ports.Notification, 0, len(match.Rejected)+1)
	out = append(out, ports.Notification{
		UserID: match.Accepted.CarrierID(),
		Event:  ports.EventOfferAccepted,
		Payload: map[string]string{
			"shipmentId": s.ID().String(),
			"offerId":    match.Accepted.ID().String(),
			"price":      match.Accepted.Price().String(),
		},
	})
	for _, o := range match.Rejected {
		out = append(out, ports.Notification{
			UserID: o.CarrierID(),
			Event:  ports.EventOfferRejected,
			Payload: map[string]string{
				"shipmentId": s.ID().String(),
				"offerId":    o.ID().String(),
			},
		})
	}
	return out
}
