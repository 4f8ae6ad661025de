// Package trackingrepo stores the append-only tracking log.
package trackingrepo

import (
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/pgmap"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_tracking_events_shipment,priority:1"`
	Status     string    `gorm:"type:varchar(16);not null"`
	Location   string
	Note       string
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null;index:idx_tracking_events_shipment,priority:2"`
}

func (EventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(e *tracking.Event) EventDTO {
	return EventDTO{
		ID:         e.ID().Bytes(),
		ShipmentID: e.ShipmentID().Bytes(),
		Status:     e.Status().String(),
		Location:   e.Location(),
		Note:       e.Note(),
		ActorID:    e.ActorID().Bytes(),
		CreatedAt:  e.CreatedAt(),
	}
}

func toDomain(dto EventDTO) (*tracking.Event, error) {
	id, idErr := pgmap.ToUUID(dto.ID)
	shipmentID, shipmentErr := pgmap.ToUUID(dto.ShipmentID)
	actorID, actorErr := pgmap.ToUUID(dto.ActorID)
	status, statusErr := shipment.ParseStatus(dto.Status)
	if err := errors.Join(idErr, shipmentErr, actorErr, statusErr); err != nil {
		return nil, err
	}

	return tracking.RestoreEvent(id, shipmentID, status, dto.Location, dto.Note, actorID, dto.CreatedAt)
}
