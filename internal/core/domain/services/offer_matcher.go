package services

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"
)

// MatchResult is the outcome of a successful acceptance.
type MatchResult struct {
	Accepted *offer.Offer
	Rejected []*offer.Offer
}

// OfferMatcher performs "accept one, reject the rest" on a shipment and its
// offer book. It only mutates in-memory aggregates; the caller persists them
// inside one transaction scoped to the locked shipment row.
//
// Checks run before any mutation, in this order:
//   - the actor owns the shipment (Forbidden)
//   - the offer exists and belongs to the shipment (NotFound)
//   - the shipment is still open for offers (InvalidState)
//   - the offer is pending (InvalidState) and not expired (Expired)
//
// Example usage:
//
//	result, err := services.NewOfferMatcher().Accept(s, offers, offerID, actor, now)
//	if errors.Is(err, errs.ErrExpired) {
//	    // the carrier's offer lapsed, nothing changed
//	}
type OfferMatcher struct{}

func NewOfferMatcher() OfferMatcher {
	return OfferMatcher{}
}

// Accept selects offerID among offers. On error no aggregate was touched.
func (OfferMatcher) Accept(
	s *shipment.Shipment,
	offers []*offer.Offer,
	offerID kernel.UUID,
	actor kernel.Actor,
	now time.Time,
) (*MatchResult, error) {
	if err := errors.Join(s.Validate(), offerID.Validate(), actor.Validate()); err != nil {
		return nil, err
	}
	if !s.IsOwnedBy(actor.ID()) {
		return nil, errs.NewForbiddenError(actor.String(), "accept offers on shipment "+s.ID().String())
	}

	var winner *offer.Offer
	for _, o := range offers {
		if o.ID().IsEqual(offerID) {
			winner = o
			break
		}
	}
	if winner == nil || !winner.BelongsTo(s.ID()) {
		return nil, errs.NewObjectNotFoundError("offer", offerID)
	}

	if !s.IsOpenForOffers() {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "accept an offer for")
	}
	if !winner.IsPending() {
		return nil, errs.NewInvalidStateError("offer", winner.Status().String(), "accept")
	}
	if winner.IsExpired(now) {
		return nil, errs.NewExpiredError("offer", offerID)
	}

	if err := winner.Accept(now); err != nil {
		return nil, err
	}
	if err := s.Accept(winner.ID(), winner.CarrierID(), winner.Price(), winner.EstimatedDelivery(), now); err != nil {
		return nil, err
	}

	result := &MatchResult{Accepted: winner}
	for _, o := range offers {
		if o == winner || !o.IsPending() || !o.BelongsTo(s.ID()) {
			continue
		}
		if err := o.Reject(now); err != nil {
			return nil, err
		}
		result.Rejected = append(result.Rejected, o)
	}

	return result, nil
}
