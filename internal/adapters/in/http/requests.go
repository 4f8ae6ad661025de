package http

import (
	"strconv"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type placeRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

type createShipmentRequest struct {
	Pickup   placeRequest `json:"pickup"`
	Delivery placeRequest `json:"delivery"`
	Cargo    struct {
		Description string  `json:"description"`
		WeightKg    float64 `json:"weightKg"`
		Type        string  `json:"type"`
	} `json:"cargo"`
	Budget struct {
		Min decimal.Decimal `json:"min"`
		Max decimal.Decimal `json:"max"`
	} `json:"budget"`
	PickupDate *time.Time `json:"pickupDate"`
}

func (r createShipmentRequest) command(actor kernel.Actor) (commands.CreateShipmentCommand, error) {
	pickup, err := shipment.NewPlace(r.Pickup.Address, r.Pickup.City)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	delivery, err := shipment.NewPlace(r.Delivery.Address, r.Delivery.City)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	route, err := shipment.NewRoute(pickup, delivery)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	cargo, err := shipment.NewCargo(r.Cargo.Description, r.Cargo.WeightKg, r.Cargo.Type)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	minPrice, err := kernel.NewMoney(r.Budget.Min)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	maxPrice, err := kernel.NewMoney(r.Budget.Max)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	budget, err := shipment.NewBudget(minPrice, maxPrice)
	if err != nil {
		return commands.CreateShipmentCommand{}, err
	}
	return commands.NewCreateShipmentCommand(actor, route, cargo, budget, r.PickupDate)
}

type submitOfferRequest struct {
	Price             decimal.Decimal `json:"price"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Message           string          `json:"message"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type respondRequest struct {
	Accept *bool `json:"accept"`
}

type trackingRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// bind decodes an optional JSON body. An empty body leaves dst untouched.
func bind(c echo.Context, dst any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return n, nil
}

func moneyOf(name string, d decimal.Decimal) (kernel.Money, error) {
	m, err := kernel.NewMoney(d)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return m, nil
}

func offerTarget(c echo.Context) (kernel.Actor, kernel.UUID, kernel.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, kernel.UUID{}, err
	}
	shipmentID, err := pathID(c, "id")
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, kernel.UUID{}, err
	}
	offerID, err := pathID(c, "offerId")
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, kernel.UUID{}, err
	}
	return actor, shipmentID, offerID, nil
}

func shipmentAction(c echo.Context) (commands.ShipmentActionCommand, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return commands.ShipmentActionCommand{}, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return commands.ShipmentActionCommand{}, err
	}
	return commands.NewShipmentActionCommand(actor, id)
}
