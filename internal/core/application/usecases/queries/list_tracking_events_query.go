package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListTrackingEventsQueryIsNotConstructed = errors.New(
	"ListTrackingEventsQuery must be created via NewListTrackingEventsQuery constructor",
)

// ListTrackingEventsQuery reads the tracking log of a shipment. Visible to the
// owner, admins and the assigned carrier with its drivers.
type ListTrackingEventsQuery struct {
	actor      kernel.Actor
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewListTrackingEventsQuery(actor kernel.Actor, shipmentID kernel.UUID) (ListTrackingEventsQuery, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate()); err != nil {
		return ListTrackingEventsQuery{}, err
	}
	return ListTrackingEventsQuery{actor: actor, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListTrackingEventsQuery) Validate() error {
	return q.guard.Validate(ErrListTrackingEventsQueryIsNotConstructed)
}

func (q ListTrackingEventsQuery) Actor() kernel.Actor {
	return q.actor
}

func (q ListTrackingEventsQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

type TrackingEventView struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	ActorID   string    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}
