package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads through the shipment cache. Concurrent misses
// for the same shipment share one database read. A nil cache disables
// caching.
type GetShipmentQueryHandler struct {
	db     *gorm.DB
	cache  ports.ShipmentCache
	group  *singleflight.Group
	logger *slog.Logger
}

func NewGetShipmentQueryHandler(db *gorm.DB, cache ports.ShipmentCache, logger *slog.Logger) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{
		db:     db,
		cache:  cache,
		group:  &singleflight.Group{},
		logger: logger.With("component", "GetShipmentQueryHandler"),
	}
}

func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (*ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	view, err := h.view(ctx, query.ShipmentID())
	if err != nil {
		return nil, err
	}

	actor := query.Actor()
	_, isCarrier := actor.CarrierID()
	if !actor.IsAdmin() && !isCarrier && actor.ID().String() != view.OwnerID {
		return nil, errs.NewForbiddenError(actor.String(), "view shipment "+view.ID)
	}
	return view, nil
}

func (h GetShipmentQueryHandler) view(ctx context.Context, id kernel.UUID) (*ShipmentView, error) {
	key := id.String()
	if view, ok := h.cached(ctx, key); ok {
		return view, nil
	}

	v, err, _ := h.group.Do(key, func() (any, error) {
		view, err := loadShipmentView(ctx, h.db, id)
		if err != nil {
			return nil, err
		}
		h.store(ctx, key, view)
		return view, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers sharing one load must not share the struct.
	view := *v.(*ShipmentView)
	return &view, nil
}

func (h GetShipmentQueryHandler) cached(ctx context.Context, key string) (*ShipmentView, bool) {
	if h.cache == nil {
		return nil, false
	}

	raw, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "shipment cache read failed", "shipmentID", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var view ShipmentView
	if err := json.Unmarshal(raw, &view); err != nil {
		h.logger.WarnContext(ctx, "dropping undecodable cache entry", "shipmentID", key, "error", err)
		return nil, false
	}
	return &view, true
}

func (h GetShipmentQueryHandler) store(ctx context.Context, key string, view *ShipmentView) {
	if h.cache == nil {
		return
	}

	raw, err := json.Marshal(view)
	if err != nil {
		h.logger.WarnContext(ctx, "shipment view not cacheable", "shipmentID", key, "error", err)
		return
	}
	if err := h.cache.Set(ctx, key, raw); err != nil {
		h.logger.WarnContext(ctx, "shipment cache write failed", "shipmentID", key, "error", err)
	}
}

type shipmentRow struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	PickupAddress     string
	PickupCity        string
	DeliveryAddress   string
	DeliveryCity      string
	CargoDescription  string
	CargoWeightKg     float64
	CargoType         string
	BudgetMin         decimal.Decimal
	BudgetMax         decimal.Decimal
	PickupDate        *time.Time
	Status            string
	AcceptedOfferID   *uuid.UUID
	CarrierID         *uuid.UUID
	Price             *decimal.Decimal
	EstimatedDelivery *time.Time
	CancelReason      string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func loadShipmentView(ctx context.Context, db *gorm.DB, id kernel.UUID) (*ShipmentView, error) {
	var row shipmentRow
	result := db.WithContext(ctx).Raw(`
		SELECT
			id, owner_id,
			pickup_address, pickup_city, delivery_address, delivery_city,
			cargo_description, cargo_weight_kg, cargo_type,
			budget_min, budget_max, pickup_date,
			status, accepted_offer_id, carrier_id, price, estimated_delivery,
			cancel_reason, version, created_at, updated_at
		FROM shipments
		WHERE id = ?
	`, id.Bytes()).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("shipment", id.String())
	}

	return &ShipmentView{
		ID:                row.ID.String(),
		OwnerID:           row.OwnerID.String(),
		PickupAddress:     row.PickupAddress,
		PickupCity:        row.PickupCity,
		DeliveryAddress:   row.DeliveryAddress,
		DeliveryCity:      row.DeliveryCity,
		CargoDescription:  row.CargoDescription,
		CargoWeightKg:     row.CargoWeightKg,
		CargoType:         row.CargoType,
		BudgetMin:         row.BudgetMin.StringFixed(2),
		BudgetMax:         row.BudgetMax.StringFixed(2),
		PickupDate:        utc(row.PickupDate),
		Status:            row.Status,
		AcceptedOfferID:   uuidString(row.AcceptedOfferID),
		CarrierID:         uuidString(row.CarrierID),
		Price:             amountString(row.Price),
		EstimatedDelivery: utc(row.EstimatedDelivery),
		CancelReason:      row.CancelReason,
		Version:           row.Version,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}, nil
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func amountString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
