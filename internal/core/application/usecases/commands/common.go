package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

var (
	ErrShipmentNotOpen = errors.New("shipment is not open for offers")
	ErrDuplicateOffer  = errors.New("carrier already holds an open offer on this shipment")
)

// Clock returns the current time. Handlers take it as a dependency so tests
// can pin time.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// notifyAll hands every notification to the notifier. The notifier logs its
// own failures; a failure here never reaches the caller of the command.
func notifyAll(ctx context.Context, notifier ports.Notifier, notifications ...ports.Notification) {
	for _, n := range notifications {
		_ = notifier.Notify(ctx, n)
	}
}

func appendEvent(
	ctx context.Context,
	repo ports.TrackingRepository,
	s *shipment.Shipment,
	location, note string,
	actor kernel.Actor,
	now time.Time,
) (*tracking.Event, error) {
	event, err := tracking.NewEvent(kernel.NewUUID(), s.ID(), s.Status(), location, note, actor.ID(), now)
	if err != nil {
		return nil, err
	}
	if err = repo.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func shipmentNotOpen(s *shipment.Shipment, action string) error {
	return fmt.Errorf("%w: %w", ErrShipmentNotOpen, errs.NewInvalidStateError("shipment", s.Status().String(), action))
}

func forbidden(actor kernel.Actor, action string) error {
	return errs.NewForbiddenError(actor.String(), action)
}
