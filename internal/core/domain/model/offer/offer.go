package offer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// DefaultTTL is how long a pending offer stays acceptable.
const DefaultTTL = 7 * 24 * time.Hour

var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer")

// Offer is a carrier's bid against an open shipment.
//
// The commission is computed once, at submission, from the configured rate.
// The offer keeps that rate so the agreement's commission is split with it
// even if the configured rate changes before acceptance.
type Offer struct {
	id                kernel.UUID
	shipmentID        kernel.UUID
	carrierID         kernel.UUID
	price             kernel.Money
	commission        kernel.Money
	rate              kernel.CommissionRate
	estimatedDelivery time.Time
	message           string
	status            Status
	expiresAt         time.Time
	version           kernel.Version
	createdAt         time.Time
	updatedAt         time.Time
	guard             guard.ConstructorGuard
}

// NewOffer creates a pending offer that expires ttl after now.
//
// Validation errors are joined, so a caller sees every invalid field at once:
//   - price must be positive
//   - estimatedDelivery is required
//   - ttl must be positive
func NewOffer(
	id kernel.UUID,
	shipmentID kernel.UUID,
	carrierID kernel.UUID,
	price kernel.Money,
	estimatedDelivery time.Time,
	message string,
	rate kernel.CommissionRate,
	now time.Time,
	ttl time.Duration,
) (*Offer, error) {
	o := &Offer{
		shipmentID:        shipmentID,
		carrierID:         carrierID,
		rate:              rate,
		estimatedDelivery: estimatedDelivery.UTC(),
		message:           strings.TrimSpace(message),
		status:            Pending,
		expiresAt:         now.Add(ttl).UTC(),
		createdAt:         now.UTC(),
		updatedAt:         now.UTC(),
		guard:             guard.NewConstructorGuard(),
	}

	var ttlErr, etaErr error
	if ttl <= 0 {
		ttlErr = errs.NewValueIsInvalidErrorWithCause("offer ttl", fmt.Errorf("%s is not positive", ttl))
	}
	if estimatedDelivery.IsZero() {
		etaErr = errs.NewValueIsRequiredError("estimated delivery")
	}

	if err := errors.Join(
		o.setID(id),
		shipmentID.Validate(),
		carrierID.Validate(),
		o.setPrice(price),
		etaErr,
		ttlErr,
		rate.Validate(),
	); err != nil {
		return nil, err
	}

	commission, err := rate.Commission(price)
	if err != nil {
		return nil, err
	}
	o.commission = commission
	return o, nil
}

// State is the persisted form of an Offer.
type State struct {
	ID                kernel.UUID
	ShipmentID        kernel.UUID
	CarrierID         kernel.UUID
	Price             kernel.Money
	Commission        kernel.Money
	Rate              kernel.CommissionRate
	EstimatedDelivery time.Time
	Message           string
	Status            Status
	ExpiresAt         time.Time
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func RestoreOffer(state State) (*Offer, error) {
	o := &Offer{
		shipmentID:        state.ShipmentID,
		carrierID:         state.CarrierID,
		commission:        state.Commission,
		rate:              state.Rate,
		estimatedDelivery: state.EstimatedDelivery,
		message:           state.Message,
		status:            state.Status,
		expiresAt:         state.ExpiresAt,
		version:           kernel.RestoreVersion(state.Version),
		createdAt:         state.CreatedAt,
		updatedAt:         state.UpdatedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(state.ID),
		state.ShipmentID.Validate(),
		state.CarrierID.Validate(),
		o.setPrice(state.Price),
		state.Commission.Validate(),
		state.Rate.Validate(),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

func (o *Offer) ID() kernel.UUID {
	return o.id
}

func (o *Offer) ShipmentID() kernel.UUID {
	return o.shipmentID
}

func (o *Offer) CarrierID() kernel.UUID {
	return o.carrierID
}

func (o *Offer) Price() kernel.Money {
	return o.price
}

// Commission is price × rate as computed at submission.
func (o *Offer) Commission() kernel.Money {
	return o.commission
}

func (o *Offer) Rate() kernel.CommissionRate {
	return o.rate
}

func (o *Offer) EstimatedDelivery() time.Time {
	return o.estimatedDelivery
}

func (o *Offer) Message() string {
	return o.message
}

func (o *Offer) Status() Status {
	return o.status
}

func (o *Offer) ExpiresAt() time.Time {
	return o.expiresAt
}

func (o *Offer) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Offer) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Offer) Version() int64 {
	return o.version.Version()
}

func (o *Offer) AdvanceVersion() {
	o.version.Advance()
}

func (o *Offer) IsPending() bool {
	return o.status == Pending
}

// IsExpired reports a pending offer past its expiry.
func (o *Offer) IsExpired(now time.Time) bool {
	return o.status == Pending && now.After(o.expiresAt)
}

func (o *Offer) BelongsTo(shipmentID kernel.UUID) bool {
	return o.shipmentID.IsEqual(shipmentID)
}

func (o *Offer) IsMadeBy(carrierID kernel.UUID) bool {
	return o.carrierID.IsEqual(carrierID)
}

// Accept marks a pending, unexpired offer as the winner.
func (o *Offer) Accept(now time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidStateError("offer", o.status.String(), "accept")
	}
	if o.IsExpired(now) {
		return errs.NewExpiredError("offer", o.id)
	}
	o.setStatus(Accepted, now)
	return nil
}

// Reject closes a pending offer, either by the sender or because another
// offer won.
func (o *Offer) Reject(now time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidStateError("offer", o.status.String(), "reject")
	}
	o.setStatus(Rejected, now)
	return nil
}

// Cancel withdraws a pending offer or revokes an accepted one.
func (o *Offer) Cancel(now time.Time) error {
	if o.status != Pending && o.status != Accepted {
		return errs.NewInvalidStateError("offer", o.status.String(), "cancel")
	}
	o.setStatus(Cancelled, now)
	return nil
}

// Expire closes a pending offer whose expiry has passed.
func (o *Offer) Expire(now time.Time) error {
	if !o.IsExpired(now) {
		return errs.NewInvalidStateError("offer", o.status.String(), "expire")
	}
	o.setStatus(Expired, now)
	return nil
}

func (o *Offer) setStatus(status Status, now time.Time) {
	o.status = status
	o.updatedAt = now.UTC()
}

func (o *Offer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Offer) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("offer price", fmt.Errorf("%s is not greater than 0", price))
	}
	o.price = price
	return nil
}
