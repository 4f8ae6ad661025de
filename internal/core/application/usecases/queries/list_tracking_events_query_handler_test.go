package queries_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ListTrackingEventsQueryHandlerTestSuite struct {
	dbSuite
}

func (suite *ListTrackingEventsQueryHandlerTestSuite) list(
	actor kernel.Actor,
	shipmentID kernel.UUID,
) ([]queries.TrackingEventView, error) {
	query, err := queries.NewListTrackingEventsQuery(actor, shipmentID)
	suite.Require().NoError(err)
	return queries.NewListTrackingEventsQueryHandler(suite.database.DB).Handle(context.Background(), query)
}

func (suite *ListTrackingEventsQueryHandlerTestSuite) TestHandle_ChronologicalForOwner() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())
	suite.seedEvent(sh, shipment.InTransit, "Ibadan", testNow.Add(2*time.Hour))
	suite.seedEvent(sh, shipment.PickedUp, "Lagos", testNow.Add(time.Hour))

	views, err := suite.list(sender, sh.ID())

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.Equal("picked_up", views[0].Status)
	suite.Equal("Lagos", views[0].Location)
	suite.Equal("in_transit", views[1].Status)
	suite.True(views[0].CreatedAt.Before(views[1].CreatedAt))
}

func (suite *ListTrackingEventsQueryHandlerTestSuite) TestHandle_AssignedCarrierAndDrivers() {
	sh := suite.seedShipment(kernel.NewUUID())
	carrier := suite.actor(kernel.RoleCarrier)
	suite.assign(sh, suite.seedOffer(sh, carrier.ID(), "1500", testNow))
	suite.seedEvent(sh, shipment.InProgress, "", testNow)

	for _, actor := range []kernel.Actor{carrier, suite.driverOf(carrier.ID()), suite.actor(kernel.RoleAdmin)} {
		views, err := suite.list(actor, sh.ID())
		suite.Require().NoError(err, actor.String())
		suite.Len(views, 1)
	}
}

func (suite *ListTrackingEventsQueryHandlerTestSuite) TestHandle_UnassignedCarrierIsForbidden() {
	sh := suite.seedShipment(kernel.NewUUID())
	suite.assign(sh, suite.seedOffer(sh, kernel.NewUUID(), "1500", testNow))

	_, err := suite.list(suite.actor(kernel.RoleCarrier), sh.ID())
	suite.Require().ErrorIs(err, errs.ErrForbidden)

	_, err = suite.list(suite.actor(kernel.RoleSender), sh.ID())
	suite.Require().ErrorIs(err, errs.ErrForbidden)
}

func (suite *ListTrackingEventsQueryHandlerTestSuite) TestHandle_UnknownShipment() {
	_, err := suite.list(suite.actor(kernel.RoleAdmin), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestListTrackingEventsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListTrackingEventsQueryHandlerTestSuite))
}
