package agreement

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCommissionIsNotConstructed = errors.New("Commission must be created via NewCommission or RestoreCommission")

// CommissionStatus moves strictly forward: pending → accepted → completed.
type CommissionStatus int

const (
	CommissionUnknown CommissionStatus = iota
	CommissionPending
	CommissionAccepted
	CommissionCompleted
)

func getCommissionStatusStrings() map[CommissionStatus]string {
	return map[CommissionStatus]string{
		CommissionUnknown:   "unknown",
		CommissionPending:   "pending",
		CommissionAccepted:  "accepted",
		CommissionCompleted: "completed",
	}
}

func ParseCommissionStatus(s string) (CommissionStatus, error) {
	for status, name := range getCommissionStatusStrings() {
		if status != CommissionUnknown && name == s {
			return status, nil
		}
	}
	return CommissionUnknown, errs.NewValueIsInvalidErrorWithCause(
		"commission status", fmt.Errorf("%q is not a valid commission status", s))
}

func (s CommissionStatus) Validate() error {
	if s <= CommissionUnknown || s > CommissionCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"commission status", fmt.Errorf("%d is not a valid commission status", s))
	}
	return nil
}

func (s CommissionStatus) String() string {
	if str, ok := getCommissionStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Commission is the platform's settlement obligation for one agreement. It
// keeps the rate it was computed with so settlement splits the price the same
// way the offer book did.
type Commission struct {
	id              kernel.UUID
	agreementID     kernel.UUID
	shipmentID      kernel.UUID
	carrierID       kernel.UUID
	rate            kernel.CommissionRate
	agreedPrice     kernel.Money
	amount          kernel.Money
	carrierReceives kernel.Money
	status          CommissionStatus
	acceptedAt      *time.Time
	completedAt     *time.Time
	version         kernel.Version
	createdAt       time.Time
	guard           guard.ConstructorGuard
}

// NewCommission mirrors the amounts of a freshly derived agreement.
func NewCommission(id kernel.UUID, a *Agreement, rate kernel.CommissionRate, now time.Time) (*Commission, error) {
	if err := errors.Join(id.Validate(), a.Validate(), rate.Validate()); err != nil {
		return nil, err
	}

	return &Commission{
		id:              id,
		agreementID:     a.ID(),
		shipmentID:      a.ShipmentID(),
		carrierID:       a.CarrierID(),
		rate:            rate,
		agreedPrice:     a.AgreedPrice(),
		amount:          a.Commission(),
		carrierReceives: a.CarrierReceives(),
		status:          CommissionPending,
		createdAt:       now.UTC(),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// CommissionState is the persisted form of a Commission.
type CommissionState struct {
	ID              kernel.UUID
	AgreementID     kernel.UUID
	ShipmentID      kernel.UUID
	CarrierID       kernel.UUID
	Rate            kernel.CommissionRate
	AgreedPrice     kernel.Money
	Amount          kernel.Money
	CarrierReceives kernel.Money
	Status          CommissionStatus
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	Version         int64
	CreatedAt       time.Time
}

func RestoreCommission(state CommissionState) (*Commission, error) {
	if err := errors.Join(
		state.ID.Validate(),
		state.AgreementID.Validate(),
		state.ShipmentID.Validate(),
		state.CarrierID.Validate(),
		state.Rate.Validate(),
		state.AgreedPrice.Validate(),
		state.Amount.Validate(),
		state.CarrierReceives.Validate(),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if state.Status == CommissionCompleted && state.CompletedAt == nil {
		return nil, errs.NewValueIsRequiredError("completed_at of completed commission")
	}

	return &Commission{
		id:              state.ID,
		agreementID:     state.AgreementID,
		shipmentID:      state.ShipmentID,
		carrierID:       state.CarrierID,
		rate:            state.Rate,
		agreedPrice:     state.AgreedPrice,
		amount:          state.Amount,
		carrierReceives: state.CarrierReceives,
		status:          state.Status,
		acceptedAt:      state.AcceptedAt,
		completedAt:     state.CompletedAt,
		version:         kernel.RestoreVersion(state.Version),
		createdAt:       state.CreatedAt,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c *Commission) Validate() error {
	if c == nil {
		return ErrCommissionIsNotConstructed
	}
	return c.guard.Validate(ErrCommissionIsNotConstructed)
}

func (c *Commission) ID() kernel.UUID { return c.id }
func (c *Commission) AgreementID() kernel.UUID { return c.agreementID }
func (c *Commission) ShipmentID() kernel.UUID { return c.shipmentID }
func (c *Commission) CarrierID() kernel.UUID { return c.carrierID }
func (c *Commission) Rate() kernel.CommissionRate { return c.rate }
func (c *Commission) AgreedPrice() kernel.Money { return c.agreedPrice }
func (c *Commission) Amount() kernel.Money { return c.amount }
func (c *Commission) CarrierReceives() kernel.Money { return c.carrierReceives }
func (c *Commission) Status() CommissionStatus { return c.status }
func (c *Commission) AcceptedAt() *time.Time { return c.acceptedAt }
func (c *Commission) CompletedAt() *time.Time { return c.completedAt }
func (c *Commission) CreatedAt() time.Time { return c.createdAt }
func (c *Commission) Version() int64 { return c.version.Version() }
func (c *Commission) AdvanceVersion() { c.version.Advance() }
func (c *Commission) IsCompleted() bool { return c.status == CommissionCompleted }

// Accept moves a pending commission to accepted.
func (c *Commission) Accept(now time.Time) error {
	if c.status != CommissionPending {
		return errs.NewInvalidStateError("commission", c.status.String(), "accept")
	}
	c.status = CommissionAccepted
	t := now.UTC()
	c.acceptedAt = &t
	return nil
}

// Complete moves an accepted commission to its terminal state. It succeeds at
// most once.
func (c *Commission) Complete(now time.Time) error {
	if c.status != CommissionAccepted {
		return errs.NewInvalidStateError("commission", c.status.String(), "complete")
	}
	c.status = CommissionCompleted
	t := now.UTC()
	c.completedAt = &t
	return nil
}
