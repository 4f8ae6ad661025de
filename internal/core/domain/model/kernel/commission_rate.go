package kernel

import (
	"errors"
	"fmt"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is the platform cut applied when none is configured (1%).
var DefaultCommissionRate = MustCommissionRate("0.01")

var ErrCommissionRateIsNotConstructed = errs.NewValueIsRequiredError(
	"commission rate must be created via NewCommissionRate")

// CommissionRate is the single configured fraction of an agreed price kept by
// the platform. The offer book, the agreement ledger and settlement all read
// the same value, so commission and carrier share always add up to the price.
type CommissionRate struct { //nolint:recvcheck //using for validation
	rate  decimal.Decimal
	guard guard.ConstructorGuard
}

// NewCommissionRate accepts rates in [0, 1).
func NewCommissionRate(rate decimal.Decimal) (CommissionRate, error) {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return CommissionRate{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"commission rate", rate.String(), "0", "1",
			fmt.Errorf("%s is outside [0, 1)", rate),
		)
	}
	return CommissionRate{rate: rate, guard: guard.NewConstructorGuard()}, nil
}

func CommissionRateFromString(s string) (CommissionRate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return CommissionRate{}, errs.NewValueIsInvalidErrorWithCause("commission rate", err)
	}
	return NewCommissionRate(d)
}

func MustCommissionRate(s string) CommissionRate {
	r, err := CommissionRateFromString(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r CommissionRate) Validate() error {
	return r.guard.Validate(ErrCommissionRateIsNotConstructed)
}

func (r CommissionRate) Decimal() decimal.Decimal {
	return r.rate
}

func (r CommissionRate) String() string {
	return r.rate.String()
}

// Commission is price × rate.
func (r CommissionRate) Commission(price Money) (Money, error) {
	if err := errors.Join(r.Validate(), price.Validate()); err != nil {
		return Money{}, err
	}
	return price.MulRate(r.rate)
}

// CarrierShare is price × (1 − rate), taken as price minus the rounded
// commission so that commission + share == price to the cent.
func (r CommissionRate) CarrierShare(price Money) (Money, error) {
	commission, err := r.Commission(price)
	if err != nil {
		return Money{}, err
	}
	return price.Sub(commission)
}
