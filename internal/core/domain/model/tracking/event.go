// Package tracking holds the append-only log of a shipment's physical
// progress. Events are never mutated once recorded.
package tracking

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/guard"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// Event snapshots the shipment status at the moment it was recorded.
type Event struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	status     shipment.Status
	location   string
	note       string
	actorID    kernel.UUID
	createdAt  time.Time
	guard      guard.ConstructorGuard
}

func NewEvent(
	id kernel.UUID,
	shipmentID kernel.UUID,
	status shipment.Status,
	location string,
	note string,
	actorID kernel.UUID,
	now time.Time,
) (*Event, error) {
	return RestoreEvent(id, shipmentID, status, location, note, actorID, now)
}

func RestoreEvent(
	id kernel.UUID,
	shipmentID kernel.UUID,
	status shipment.Status,
	location string,
	note string,
	actorID kernel.UUID,
	createdAt time.Time,
) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		status.Validate(),
		actorID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Event{
		id:         id,
		shipmentID: shipmentID,
		status:     status,
		location:   strings.TrimSpace(location),
		note:       strings.TrimSpace(note),
		actorID:    actorID,
		createdAt:  createdAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e *Event) ID() kernel.UUID {
	return e.id
}

func (e *Event) ShipmentID() kernel.UUID {
	return e.shipmentID
}

func (e *Event) Status() shipment.Status {
	return e.status
}

func (e *Event) Location() string {
	return e.location
}

func (e *Event) Note() string {
	return e.note
}

func (e *Event) ActorID() kernel.UUID {
	return e.actorID
}

func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}
