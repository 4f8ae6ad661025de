package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/guard"
)

var ErrRecordTrackingStatusCommandIsNotConstructed = errors.New(
	"RecordTrackingStatusCommand must be created via NewRecordTrackingStatusCommand constructor",
)

type RecordTrackingStatusCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	shipmentID kernel.UUID
	status     shipment.Status
	location   string
	note       string

	guard guard.ConstructorGuard
}

func NewRecordTrackingStatusCommand(
	actor kernel.Actor,
	shipmentID kernel.UUID,
	status shipment.Status,
	location string,
	note string,
) (RecordTrackingStatusCommand, error) {
	if err := errors.Join(actor.Validate(), shipmentID.Validate(), status.Validate()); err != nil {
		return RecordTrackingStatusCommand{}, err
	}

	return RecordTrackingStatusCommand{
		actor:      actor,
		shipmentID: shipmentID,
		status:     status,
		location:   strings.TrimSpace(location),
		note:       strings.TrimSpace(note),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecordTrackingStatusCommand) Validate() error {
	return c.guard.Validate(ErrRecordTrackingStatusCommandIsNotConstructed)
}

func (c RecordTrackingStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RecordTrackingStatusCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c RecordTrackingStatusCommand) Status() shipment.Status {
	return c.status
}

func (c RecordTrackingStatusCommand) Location() string {
	return c.location
}

func (c RecordTrackingStatusCommand) Note() string {
	return c.note
}
