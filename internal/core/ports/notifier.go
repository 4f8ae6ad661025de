package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// Event names published to the notification rail.
const (
	EventOfferReceived       = "offer.received"
	EventOfferAccepted       = "offer.accepted"
	EventOfferRejected       = "offer.rejected"
	EventOfferWithdrawn      = "offer.withdrawn"
	EventOfferExpired        = "offer.expired"
	EventAssignmentCancelled = "assignment.cancelled"
	EventAgreementAccepted   = "agreement.accepted"
	EventAgreementRejected   = "agreement.rejected"
	EventShipmentCancelled   = "shipment.cancelled"
	EventShipmentStatus      = "shipment.status_changed"
	EventWalletCredited      = "wallet.credited"
)

// Notification is addressed to one user.
type Notification struct {
	UserID  kernel.UUID
	Event   string
	Payload map[string]string
}

// Notifier delivers notifications best effort. Callers never let a
// notification failure undo a committed change.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// ShipmentCache holds serialized shipment views keyed by shipment id.
type ShipmentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
