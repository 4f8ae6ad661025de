package services

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/wallet"
	"freight/internal/pkg/errs"
)

// Settlement is the outcome of Settler.Settle. Settled is false when the
// commission had already been completed and nothing changed.
type Settlement struct {
	Settled       bool
	CarrierAmount kernel.Money
	Commission    kernel.Money
	Transaction   *wallet.Transaction
}

// Settler splits the agreed price of a completed shipment between platform
// and carrier and credits the carrier's wallet.
type Settler struct{}

func NewSettler() Settler {
	return Settler{}
}

// Settle credits the carrier share fixed on the commission, price × (1 − rate)
// at the offer's rate, and completes the commission. It is guarded by the
// commission status: a completed commission yields a no-op result, a pending
// one is refused.
func (Settler) Settle(
	s *shipment.Shipment,
	c *agreement.Commission,
	w *wallet.Wallet,
	txID kernel.UUID,
	now time.Time,
) (*Settlement, error) {
	if err := errors.Join(s.Validate(), c.Validate(), w.Validate()); err != nil {
		return nil, err
	}
	if s.Status() != shipment.Completed {
		return nil, errs.NewInvalidStateError("shipment", s.Status().String(), "settle")
	}
	if !c.ShipmentID().IsEqual(s.ID()) || !w.UserID().IsEqual(c.CarrierID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("settlement",
			fmt.Errorf("commission %s and wallet %s do not belong to shipment %s", c.ID(), w.UserID(), s.ID()))
	}
	if c.IsCompleted() {
		return &Settlement{Settled: false, CarrierAmount: c.CarrierReceives(), Commission: c.Amount()}, nil
	}
	if c.Status() != agreement.CommissionAccepted {
		return nil, errs.NewInvalidStateError("commission", c.Status().String(), "settle")
	}

	carrierAmount := c.CarrierReceives()
	if err := c.Complete(now); err != nil {
		return nil, err
	}
	tx, err := w.Credit(txID, carrierAmount, c.ID(), "settlement of shipment "+s.ID().String(), now)
	if err != nil {
		return nil, err
	}

	return &Settlement{
		Settled:       true,
		CarrierAmount: carrierAmount,
		Commission:    c.Amount(),
		Transaction:   tx,
	}, nil
}
