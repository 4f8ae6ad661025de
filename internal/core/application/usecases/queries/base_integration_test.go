package queries_test

import (
	"context"
	"time"

	adapter "freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/suite"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// dbSuite is embedded by the query suites: one container per suite, empty
// tables per test and repositories for seeding.
type dbSuite struct {
	suite.Suite
	database *pgtest.Database
	uow      ports.UnitOfWork
}

func (s *dbSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	s.Require().NoError(err)
	s.database = database
}

func (s *dbSuite) SetupTest() {
	s.Require().NoError(s.database.Truncate())
	s.uow = adapter.NewGormUnitOfWorkFactory(s.database.DB).Create()
}

func (s *dbSuite) TearDownSuite() {
	s.Require().NoError(s.database.Terminate(context.Background()))
}

func (s *dbSuite) actor(role kernel.Role) kernel.Actor {
	var company *kernel.UUID
	if role == kernel.RoleDriver {
		id := kernel.NewUUID()
		company = &id
	}
	a, err := kernel.NewActor(kernel.NewUUID(), role, company)
	s.Require().NoError(err)
	return a
}

func (s *dbSuite) driverOf(carrierID kernel.UUID) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleDriver, &carrierID)
	s.Require().NoError(err)
	return a
}

func (s *dbSuite) seedShipment(ownerID kernel.UUID) *shipment.Shipment {
	pickup, err := shipment.NewPlace("12 Marina Rd", "Lagos")
	s.Require().NoError(err)
	delivery, err := shipment.NewPlace("4 Garki Ave", "Abuja")
	s.Require().NoError(err)
	route, err := shipment.NewRoute(pickup, delivery)
	s.Require().NoError(err)
	cargo, err := shipment.NewCargo("palletised tiles", 1200, "construction")
	s.Require().NoError(err)
	budget, err := shipment.NewBudget(kernel.MustMoney("1000"), kernel.MustMoney("2000"))
	s.Require().NoError(err)

	sh, err := shipment.NewShipment(kernel.NewUUID(), ownerID, route, cargo, budget, nil, testNow)
	s.Require().NoError(err)
	s.Require().NoError(s.uow.ShipmentRepository().Add(context.Background(), sh))
	return sh
}

func (s *dbSuite) seedOffer(sh *shipment.Shipment, carrierID kernel.UUID, price string, createdAt time.Time) *offer.Offer {
	o, err := offer.NewOffer(
		kernel.NewUUID(), sh.ID(), carrierID, kernel.MustMoney(price), createdAt.Add(96*time.Hour), "",
		kernel.DefaultCommissionRate, createdAt, offer.DefaultTTL,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.uow.OfferRepository().Add(context.Background(), o))
	return o
}

func (s *dbSuite) seedEvent(sh *shipment.Shipment, status shipment.Status, location string, at time.Time) {
	e, err := tracking.NewEvent(kernel.NewUUID(), sh.ID(), status, location, "", sh.OwnerID(), at)
	s.Require().NoError(err)
	s.Require().NoError(s.uow.TrackingRepository().Append(context.Background(), e))
}

// assign accepts o on sh and stores the shipment.
func (s *dbSuite) assign(sh *shipment.Shipment, o *offer.Offer) {
	s.Require().NoError(sh.Accept(o.ID(), o.CarrierID(), o.Price(), o.EstimatedDelivery(), testNow))
	s.Require().NoError(s.uow.ShipmentRepository().Update(context.Background(), sh))
}
