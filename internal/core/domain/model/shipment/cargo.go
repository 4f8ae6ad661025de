package shipment

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	ErrPlaceIsNotConstructed  = errors.New("Place must be created via NewPlace constructor")
	ErrRouteIsNotConstructed  = errors.New("Route must be created via NewRoute constructor")
	ErrCargoIsNotConstructed  = errors.New("Cargo must be created via NewCargo constructor")
	ErrBudgetIsNotConstructed = errors.New("Budget must be created via NewBudget constructor")
)

// Place is a pickup or delivery point.
type Place struct {
	address string
	city    string
	guard   guard.ConstructorGuard
}

func NewPlace(address, city string) (Place, error) {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)

	var err error
	if address == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("address"))
	}
	if city == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("city"))
	}
	if err != nil {
		return Place{}, err
	}

	return Place{address: address, city: city, guard: guard.NewConstructorGuard()}, nil
}

func (p Place) Validate() error {
	return p.guard.Validate(ErrPlaceIsNotConstructed)
}

func (p Place) Address() string {
	return p.address
}

func (p Place) City() string {
	return p.city
}

func (p Place) String() string {
	return p.address + ", " + p.city
}

// Route links the pickup to the delivery place.
type Route struct {
	pickup   Place
	delivery Place
	guard    guard.ConstructorGuard
}

func NewRoute(pickup, delivery Place) (Route, error) {
	if err := errors.Join(pickup.Validate(), delivery.Validate()); err != nil {
		return Route{}, err
	}
	return Route{pickup: pickup, delivery: delivery, guard: guard.NewConstructorGuard()}, nil
}

func (r Route) Validate() error {
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r Route) Pickup() Place {
	return r.pickup
}

func (r Route) Delivery() Place {
	return r.delivery
}

// Cargo describes what is moved.
type Cargo struct {
	description string
	weightKg    float64
	cargoType   string
	guard       guard.ConstructorGuard
}

func NewCargo(description string, weightKg float64, cargoType string) (Cargo, error) {
	description = strings.TrimSpace(description)
	cargoType = strings.TrimSpace(cargoType)

	var err error
	if description == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("cargo description"))
	}
	if weightKg <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause(
			"cargo weight", fmt.Errorf("%g is not greater than 0", weightKg)))
	}
	if cargoType == "" {
		cargoType = "general"
	}
	if err != nil {
		return Cargo{}, err
	}

	return Cargo{
		description: description,
		weightKg:    weightKg,
		cargoType:   cargoType,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c Cargo) Validate() error {
	return c.guard.Validate(ErrCargoIsNotConstructed)
}

func (c Cargo) Description() string {
	return c.description
}

func (c Cargo) WeightKg() float64 {
	return c.weightKg
}

func (c Cargo) Type() string {
	return c.cargoType
}

// Budget is the price range the sender expects. It is advisory: offers
// outside the range are still accepted into the offer book.
type Budget struct {
	min   kernel.Money
	max   kernel.Money
	guard guard.ConstructorGuard
}

func NewBudget(minPrice, maxPrice kernel.Money) (Budget, error) {
	if err := errors.Join(minPrice.Validate(), maxPrice.Validate()); err != nil {
		return Budget{}, err
	}
	if minPrice.GreaterThan(maxPrice) {
		return Budget{}, errs.NewValueIsOutOfRangeError("budget min", minPrice.String(), "0", maxPrice.String())
	}
	return Budget{min: minPrice, max: maxPrice, guard: guard.NewConstructorGuard()}, nil
}

func (b Budget) Validate() error {
	return b.guard.Validate(ErrBudgetIsNotConstructed)
}

func (b Budget) Min() kernel.Money {
	return b.min
}

func (b Budget) Max() kernel.Money {
	return b.max
}

// Contains reports whether price lies within [min, max].
func (b Budget) Contains(price kernel.Money) bool {
	return !b.min.GreaterThan(price) && !price.GreaterThan(b.max)
}
