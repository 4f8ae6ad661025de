package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type GetShipmentQueryHandlerTestSuite struct {
	dbSuite
	cache   *memoryCache
	handler queries.GetShipmentQueryHandler
}

func (suite *GetShipmentQueryHandlerTestSuite) SetupTest() {
	suite.dbSuite.SetupTest()
	suite.cache = newMemoryCache()
	suite.handler = queries.NewGetShipmentQueryHandler(suite.database.DB, suite.cache, slog.New(slog.DiscardHandler))
}

func (suite *GetShipmentQueryHandlerTestSuite) get(actor kernel.Actor, id kernel.UUID) (*queries.ShipmentView, error) {
	query, err := queries.NewGetShipmentQuery(actor, id)
	suite.Require().NoError(err)
	return suite.handler.Handle(context.Background(), query)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_OwnerReadsAssignedShipment() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())
	o := suite.seedOffer(sh, kernel.NewUUID(), "1500", testNow)
	suite.assign(sh, o)

	view, err := suite.get(sender, sh.ID())

	suite.Require().NoError(err)
	suite.Equal(sh.ID().String(), view.ID)
	suite.Equal("Lagos", view.PickupCity)
	suite.Equal("Abuja", view.DeliveryCity)
	suite.Equal("1000.00", view.BudgetMin)
	suite.Equal("accepted", view.Status)
	suite.Require().NotNil(view.Price)
	suite.Equal("1500.00", *view.Price)
	suite.Require().NotNil(view.CarrierID)
	suite.Equal(o.CarrierID().String(), *view.CarrierID)
	suite.Equal(int64(1), view.Version)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_ReadsThroughCache() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())

	_, err := suite.get(sender, sh.ID())
	suite.Require().NoError(err)
	suite.Equal(1, suite.cache.sets)

	suite.Require().NoError(suite.database.DB.Exec("DELETE FROM shipments").Error)
	view, err := suite.get(suite.actor(kernel.RoleCarrier), sh.ID())

	suite.Require().NoError(err)
	suite.Equal("pending", view.Status)
	suite.Equal(1, suite.cache.sets)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_CacheFailureFallsBackToDatabase() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())
	suite.cache.getErr = errors.New("connection refused")

	view, err := suite.get(sender, sh.ID())

	suite.Require().NoError(err)
	suite.Equal(sh.ID().String(), view.ID)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_Visibility() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())

	for _, actor := range []kernel.Actor{
		suite.actor(kernel.RoleAdmin),
		suite.actor(kernel.RoleCarrier),
		suite.actor(kernel.RoleDriver),
	} {
		_, err := suite.get(actor, sh.ID())
		suite.Require().NoError(err, actor.String())
	}

	_, err := suite.get(suite.actor(kernel.RoleSender), sh.ID())
	suite.Require().ErrorIs(err, errs.ErrForbidden)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_Missing_ReturnsNotFound() {
	_, err := suite.get(suite.actor(kernel.RoleAdmin), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Zero(suite.cache.sets)
}

func (suite *GetShipmentQueryHandlerTestSuite) TestHandle_WithoutCache() {
	sender := suite.actor(kernel.RoleSender)
	sh := suite.seedShipment(sender.ID())
	handler := queries.NewGetShipmentQueryHandler(suite.database.DB, nil, slog.New(slog.DiscardHandler))
	query, err := queries.NewGetShipmentQuery(sender, sh.ID())
	suite.Require().NoError(err)

	view, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(sh.ID().String(), view.ID)
}

func TestGetShipmentQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetShipmentQueryHandlerTestSuite))
}
