package commands

import (
	"context"

	"freight/internal/core/ports"
)

// ExpireOffersCommandHandler moves pending offers past their expiry to
// expired. Offers locked by a concurrent acceptance are skipped and picked up
// by a later sweep if they are still pending.
type ExpireOffersCommandHandler struct {
	uowFactory OfferUoWFactory
	notifier   ports.Notifier
	clock      Clock
}

func NewExpireOffersCommandHandler(
	uowFactory OfferUoWFactory,
	notifier ports.Notifier,
	clock Clock,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle returns the number of offers expired.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	offerRepo := uow.OfferRepository()
	stale, err := offerRepo.ListExpired(ctx, now, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	notifications := make([]ports.Notification, 0, len(stale))
	for _, o := range stale {
		if err = o.Expire(now); err != nil {
			return 0, err
		}
		if err = offerRepo.Update(ctx, o); err != nil {
			return 0, err
		}
		notifications = append(notifications, ports.Notification{
			UserID: o.CarrierID(),
			Event:  ports.EventOfferExpired,
			Payload: map[string]string{
				"shipmentId": o.ShipmentID().String(),
				"offerId":    o.ID().String(),
			},
		})
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	notifyAll(ctx, h.notifier, notifications...)
	return len(stale), nil
}
