package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/domain/model/wallet"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update writes the shipment if its stored version still equals
	// aggregate.Version(); otherwise it fails with a Conflict error.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get reads a shipment without locking it.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate reads and row-locks a shipment until the transaction ends.
	// Every mutating marketplace operation starts here, which serializes
	// them per shipment.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)
}

// OfferRepository defines the persistence contract for the offer book.
type OfferRepository interface {
	Add(ctx context.Context, aggregate *offer.Offer) error

	// Update is a compare-and-swap on the offer version.
	Update(ctx context.Context, aggregate *offer.Offer) error

	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// ListByShipment returns every offer of the shipment, oldest first.
	ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*offer.Offer, error)

	// HasPendingFromCarrier reports whether the carrier already holds a
	// pending offer on the shipment.
	HasPendingFromCarrier(ctx context.Context, shipmentID, carrierID kernel.UUID) (bool, error)

	// ListExpired returns up to limit pending offers whose expiry is before
	// now. Rows locked by another transaction are skipped.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*offer.Offer, error)
}

// AgreementRepository stores agreements and their commissions.
type AgreementRepository interface {
	// Add fails with a Conflict error when an agreement already references
	// the same offer.
	Add(ctx context.Context, aggregate *agreement.Agreement) error
	Update(ctx context.Context, aggregate *agreement.Agreement) error
	Get(ctx context.Context, id kernel.UUID) (*agreement.Agreement, error)
	GetByOfferID(ctx context.Context, offerID kernel.UUID) (*agreement.Agreement, error)

	// AddCommission fails with a Conflict error when the agreement already
	// has a commission.
	AddCommission(ctx context.Context, commission *agreement.Commission) error
	UpdateCommission(ctx context.Context, commission *agreement.Commission) error
	GetCommissionByAgreementID(ctx context.Context, agreementID kernel.UUID) (*agreement.Commission, error)
}

// TrackingRepository is append-only: events are never updated or deleted.
type TrackingRepository interface {
	Append(ctx context.Context, event *tracking.Event) error

	// ListByShipment returns events ordered by creation time.
	ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*tracking.Event, error)
}

// WalletRepository serializes balance changes per wallet.
type WalletRepository interface {
	// GetForUpdate locks the user's wallet row, creating an empty wallet
	// first when the user has none.
	GetForUpdate(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error)

	// Update is a compare-and-swap on the wallet version.
	Update(ctx context.Context, aggregate *wallet.Wallet) error

	// AppendTransaction fails with a Conflict error when a transaction of the
	// same kind already references the same object.
	AppendTransaction(ctx context.Context, tx *wallet.Transaction) error
}
