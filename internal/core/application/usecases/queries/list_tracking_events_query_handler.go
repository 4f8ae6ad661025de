package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListTrackingEventsQueryHandler struct {
	db *gorm.DB
}

func NewListTrackingEventsQueryHandler(db *gorm.DB) ListTrackingEventsQueryHandler {
	return ListTrackingEventsQueryHandler{db: db}
}

// Handle returns the events in the order they were recorded.
func (h ListTrackingEventsQueryHandler) Handle(
	ctx context.Context,
	query ListTrackingEventsQuery,
) ([]TrackingEventView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := h.authorize(ctx, query); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, status, location, note, actor_id, created_at
		FROM tracking_events
		WHERE shipment_id = ?
		ORDER BY created_at, id
	`, query.ShipmentID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEventView, 0)
	for rows.Next() {
		var (
			id, actorID            uuid.UUID
			status, location, note string
			createdAt              time.Time
		)
		if err = rows.Scan(&id, &status, &location, &note, &actorID, &createdAt); err != nil {
			return nil, err
		}
		events = append(events, TrackingEventView{
			ID:        id.String(),
			Status:    status,
			Location:  location,
			Note:      note,
			ActorID:   actorID.String(),
			CreatedAt: createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (h ListTrackingEventsQueryHandler) authorize(ctx context.Context, query ListTrackingEventsQuery) error {
	var (
		owner   uuid.UUID
		carrier *uuid.UUID
	)
	err := h.db.WithContext(ctx).
		Raw(`SELECT owner_id, carrier_id FROM shipments WHERE id = ?`, query.ShipmentID().Bytes()).
		Row().
		Scan(&owner, &carrier)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NewObjectNotFoundError("shipment", query.ShipmentID().String())
	}
	if err != nil {
		return err
	}

	actor := query.Actor()
	if actor.IsAdmin() || actor.ID().Bytes() == owner {
		return nil
	}
	if carrier != nil {
		carrierID, err := kernel.UUIDFromBytes(carrier[:])
		if err != nil {
			return err
		}
		if actor.ActsFor(carrierID) {
			return nil
		}
	}
	return errs.NewForbiddenError(actor.String(), "view tracking of shipment "+query.ShipmentID().String())
}
