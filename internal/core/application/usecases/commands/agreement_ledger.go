package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// agreementLedger derives and unwinds agreements inside the caller's
// transaction.
type agreementLedger struct {
	agreements ports.AgreementRepository
	offers     ports.OfferRepository
}

func newAgreementLedger(uow UoW) agreementLedger {
	return agreementLedger{
		agreements: uow.AgreementRepository(),
		offers:     uow.OfferRepository(),
	}
}

// createFromOffer records the agreement and commission of an accepted offer,
// at the rate the offer was priced with. A second agreement for the same offer
// is a Conflict.
func (l agreementLedger) createFromOffer(
	ctx context.Context,
	o *offer.Offer,
	senderID kernel.UUID,
	now time.Time,
) (*agreement.Agreement, *agreement.Commission, error) {
	existing, err := l.agreements.GetByOfferID(ctx, o.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, errs.NewConflictError("agreement", "already exists for offer "+o.ID().String())
	}

	a, err := agreement.NewFromOffer(kernel.NewUUID(), o, senderID, now)
	if err != nil {
		return nil, nil, err
	}
	c, err := agreement.NewCommission(kernel.NewUUID(), a, o.Rate(), now)
	if err != nil {
		return nil, nil, err
	}

	if err = l.agreements.Add(ctx, a); err != nil {
		return nil, nil, err
	}
	if err = l.agreements.AddCommission(ctx, c); err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

// current returns the agreement and commission behind the shipment's
// accepted offer.
func (l agreementLedger) current(
	ctx context.Context,
	s *shipment.Shipment,
) (*agreement.Agreement, *agreement.Commission, error) {
	if s.AcceptedOfferID() == nil {
		return nil, nil, errs.NewInvalidStateError("shipment", s.Status().String(), "find the agreement of")
	}
	a, err := l.agreements.GetByOfferID(ctx, *s.AcceptedOfferID())
	if err != nil {
		return nil, nil, err
	}
	c, err := l.agreements.GetCommissionByAgreementID(ctx, a.ID())
	if err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

// acceptImplicitly confirms a still pending agreement when the carrier starts
// fulfilling the shipment without responding first.
func (l agreementLedger) acceptImplicitly(ctx context.Context, s *shipment.Shipment, now time.Time) error {
	a, c, err := l.current(ctx, s)
	if err != nil {
		return err
	}
	if !a.IsPending() {
		return nil
	}
	if err = a.Accept(now); err != nil {
		return err
	}
	if err = c.Accept(now); err != nil {
		return err
	}
	if err = l.agreements.Update(ctx, a); err != nil {
		return err
	}
	return l.agreements.UpdateCommission(ctx, c)
}

// cancelPendingOffers cancels every still open offer on a shipment that is
// being cancelled and returns the carriers that made them.
func (l agreementLedger) cancelPendingOffers(
	ctx context.Context,
	s *shipment.Shipment,
	now time.Time,
) ([]kernel.UUID, error) {
	offers, err := l.offers.ListByShipment(ctx, s.ID())
	if err != nil {
		return nil, err
	}

	carriers := make([]kernel.UUID, 0, len(offers))
	for _, o := range offers {
		if !o.IsPending() {
			continue
		}
		if err = o.Cancel(now); err != nil {
			return nil, err
		}
		if err = l.offers.Update(ctx, o); err != nil {
			return nil, err
		}
		carriers = append(carriers, o.CarrierID())
	}
	return carriers, nil
}

// revoke cancels the shipment's accepted offer and terminates its agreement.
// It must run before the shipment clears its assignment. The revoked offer
// is returned so the caller can notify its carrier.
//
// The commission is left as it is: an accepted commission behind a rejected
// agreement is void and can never settle, because the shipment no longer
// points at its offer.
func (l agreementLedger) revoke(ctx context.Context, s *shipment.Shipment, now time.Time) (*offer.Offer, error) {
	if s.AcceptedOfferID() == nil {
		return nil, nil
	}

	o, err := l.offers.Get(ctx, *s.AcceptedOfferID())
	if err != nil {
		return nil, err
	}
	if o.Status() == offer.Accepted {
		if err = o.Cancel(now); err != nil {
			return nil, err
		}
		if err = l.offers.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	a, err := l.agreements.GetByOfferID(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return o, nil
	}
	if err != nil {
		return nil, err
	}
	if a.Status() == agreement.StatusRejected {
		return o, nil
	}
	if err = a.Terminate(now); err != nil {
		return nil, err
	}
	if err = l.agreements.Update(ctx, a); err != nil {
		return nil, err
	}
	return o, nil
}
