package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListOffersQueryHandler struct {
	db *gorm.DB
}

func NewListOffersQueryHandler(db *gorm.DB) ListOffersQueryHandler {
	return ListOffersQueryHandler{db: db}
}

// Handle returns offers oldest first.
func (h ListOffersQueryHandler) Handle(ctx context.Context, query ListOffersQuery) ([]OfferView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ownerID, err := shipmentOwner(ctx, h.db, query.ShipmentID())
	if err != nil {
		return nil, err
	}

	actor := query.Actor()
	stmt := `
		SELECT id, shipment_id, carrier_id, price, commission, estimated_delivery,
			message, status, expires_at, created_at
		FROM offers
		WHERE shipment_id = ?`
	args := []any{query.ShipmentID().Bytes()}

	switch carrierID, isCarrier := actor.CarrierID(); {
	case actor.IsAdmin() || actor.ID().IsEqual(ownerID):
	case isCarrier:
		stmt += ` AND carrier_id = ?`
		args = append(args, carrierID.Bytes())
	default:
		return nil, errs.NewForbiddenError(actor.String(), "list offers of shipment "+query.ShipmentID().String())
	}
	stmt += ` ORDER BY created_at, id`

	rows, err := h.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]OfferView, 0)
	for rows.Next() {
		var (
			id, shipmentID, carrierID               uuid.UUID
			price, commission                       decimal.Decimal
			estimatedDelivery, expiresAt, createdAt time.Time
			message, status                         string
		)
		if err = rows.Scan(
			&id, &shipmentID, &carrierID, &price, &commission, &estimatedDelivery,
			&message, &status, &expiresAt, &createdAt,
		); err != nil {
			return nil, err
		}

		offers = append(offers, OfferView{
			ID:                id.String(),
			ShipmentID:        shipmentID.String(),
			CarrierID:         carrierID.String(),
			Price:             price.StringFixed(2),
			Commission:        commission.StringFixed(2),
			EstimatedDelivery: estimatedDelivery.UTC(),
			Message:           message,
			Status:            status,
			ExpiresAt:         expiresAt.UTC(),
			CreatedAt:         createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}

func shipmentOwner(ctx context.Context, db *gorm.DB, shipmentID kernel.UUID) (kernel.UUID, error) {
	var owner uuid.UUID
	err := db.WithContext(ctx).
		Raw(`SELECT owner_id FROM shipments WHERE id = ?`, shipmentID.Bytes()).
		Row().
		Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return kernel.UUID{}, errs.NewObjectNotFoundError("shipment", shipmentID.String())
	}
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(owner[:])
}
