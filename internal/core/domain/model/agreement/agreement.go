package agreement

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrAgreementIsNotConstructed = errors.New("Agreement must be created via NewFromOffer or RestoreAgreement")

// Status of an agreement between the sender and the winning carrier.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusAccepted
	StatusRejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		StatusPending:  "pending",
		StatusAccepted: "accepted",
		StatusRejected: "rejected",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"agreement status", fmt.Errorf("%q is not a valid agreement status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusRejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"agreement status", fmt.Errorf("%d is not a valid agreement status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Agreement is the binding record derived from an accepted offer.
// carrierReceives is always agreedPrice − commission.
type Agreement struct {
	id              kernel.UUID
	offerID         kernel.UUID
	shipmentID      kernel.UUID
	senderID        kernel.UUID
	carrierID       kernel.UUID
	agreedPrice     kernel.Money
	commission      kernel.Money
	carrierReceives kernel.Money
	status          Status
	respondedAt     *time.Time
	version         kernel.Version
	createdAt       time.Time
	guard           guard.ConstructorGuard
}

// NewFromOffer derives a pending agreement from an accepted offer.
func NewFromOffer(id kernel.UUID, o *offer.Offer, senderID kernel.UUID, now time.Time) (*Agreement, error) {
	if err := errors.Join(id.Validate(), o.Validate(), senderID.Validate()); err != nil {
		return nil, err
	}
	if o.Status() != offer.Accepted {
		return nil, errs.NewInvalidStateError("offer", o.Status().String(), "derive an agreement from")
	}

	receives, err := o.Price().Sub(o.Commission())
	if err != nil {
		return nil, err
	}

	return &Agreement{
		id:              id,
		offerID:         o.ID(),
		shipmentID:      o.ShipmentID(),
		senderID:        senderID,
		carrierID:       o.CarrierID(),
		agreedPrice:     o.Price(),
		commission:      o.Commission(),
		carrierReceives: receives,
		status:          StatusPending,
		createdAt:       now.UTC(),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// AgreementState is the persisted form of an Agreement.
type AgreementState struct {
	ID              kernel.UUID
	OfferID         kernel.UUID
	ShipmentID      kernel.UUID
	SenderID        kernel.UUID
	CarrierID       kernel.UUID
	AgreedPrice     kernel.Money
	Commission      kernel.Money
	CarrierReceives kernel.Money
	Status          Status
	RespondedAt     *time.Time
	Version         int64
	CreatedAt       time.Time
}

func RestoreAgreement(state AgreementState) (*Agreement, error) {
	if err := errors.Join(
		state.ID.Validate(),
		state.OfferID.Validate(),
		state.ShipmentID.Validate(),
		state.SenderID.Validate(),
		state.CarrierID.Validate(),
		state.AgreedPrice.Validate(),
		state.Commission.Validate(),
		state.CarrierReceives.Validate(),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Agreement{
		id:              state.ID,
		offerID:         state.OfferID,
		shipmentID:      state.ShipmentID,
		senderID:        state.SenderID,
		carrierID:       state.CarrierID,
		agreedPrice:     state.AgreedPrice,
		commission:      state.Commission,
		carrierReceives: state.CarrierReceives,
		status:          state.Status,
		respondedAt:     state.RespondedAt,
		version:         kernel.RestoreVersion(state.Version),
		createdAt:       state.CreatedAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (a *Agreement) Validate() error {
	if a == nil {
		return ErrAgreementIsNotConstructed
	}
	return a.guard.Validate(ErrAgreementIsNotConstructed)
}

func (a *Agreement) ID() kernel.UUID { return a.id }
func (a *Agreement) OfferID() kernel.UUID { return a.offerID }
func (a *Agreement) ShipmentID() kernel.UUID { return a.shipmentID }
func (a *Agreement) SenderID() kernel.UUID { return a.senderID }
func (a *Agreement) CarrierID() kernel.UUID { return a.carrierID }
func (a *Agreement) AgreedPrice() kernel.Money { return a.agreedPrice }
func (a *Agreement) Commission() kernel.Money { return a.commission }
func (a *Agreement) CarrierReceives() kernel.Money { return a.carrierReceives }
func (a *Agreement) Status() Status { return a.status }
func (a *Agreement) RespondedAt() *time.Time { return a.respondedAt }
func (a *Agreement) CreatedAt() time.Time { return a.createdAt }
func (a *Agreement) Version() int64 { return a.version.Version() }
func (a *Agreement) AdvanceVersion() { a.version.Advance() }

func (a *Agreement) IsPending() bool {
	return a.status == StatusPending
}

// Accept records the carrier's confirmation.
func (a *Agreement) Accept(now time.Time) error {
	return a.respond(StatusAccepted, "accept", now)
}

// Reject records the carrier's refusal.
func (a *Agreement) Reject(now time.Time) error {
	return a.respond(StatusRejected, "reject", now)
}

// Terminate ends a pending or accepted agreement when its offer is revoked or
// its shipment is cancelled before transit.
func (a *Agreement) Terminate(now time.Time) error {
	if a.status != StatusPending && a.status != StatusAccepted {
		return errs.NewInvalidStateError("agreement", a.status.String(), "terminate")
	}
	a.status = StatusRejected
	t := now.UTC()
	a.respondedAt = &t
	return nil
}

func (a *Agreement) respond(next Status, action string, now time.Time) error {
	if a.status != StatusPending {
		return errs.NewInvalidStateError("agreement", a.status.String(), action)
	}
	a.status = next
	t := now.UTC()
	a.respondedAt = &t
	return nil
}
