package commands_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/core/domain/model/wallet"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*offer.Offer, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) HasPendingFromCarrier(ctx context.Context, shipmentID, carrierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, shipmentID, carrierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*offer.Offer, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

type MockAgreementRepository struct{ mock.Mock }

func (m *MockAgreementRepository) Add(ctx context.Context, a *agreement.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgreementRepository) Update(ctx context.Context, a *agreement.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgreementRepository) Get(ctx context.Context, id kernel.UUID) (*agreement.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agreement.Agreement), args.Error(1)
}

func (m *MockAgreementRepository) GetByOfferID(ctx context.Context, offerID kernel.UUID) (*agreement.Agreement, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agreement.Agreement), args.Error(1)
}

func (m *MockAgreementRepository) AddCommission(ctx context.Context, c *agreement.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockAgreementRepository) UpdateCommission(ctx context.Context, c *agreement.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockAgreementRepository) GetCommissionByAgreementID(
	ctx context.Context,
	agreementID kernel.UUID,
) (*agreement.Commission, error) {
	args := m.Called(ctx, agreementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agreement.Commission), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) Append(ctx context.Context, e *tracking.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTrackingRepository) ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*tracking.Event, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.Event), args.Error(1)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) GetForUpdate(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) AppendTransaction(ctx context.Context, tx *wallet.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockUoW satisfies UoW, ShipmentUoW and OfferUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

func (m *MockUoW) AgreementRepository() ports.AgreementRepository {
	args := m.Called()
	return args.Get(0).(ports.AgreementRepository)
}

func (m *MockUoW) TrackingRepository() ports.TrackingRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingRepository)
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockOfferUoWFactory struct{ mock.Mock }

func (m *MockOfferUoWFactory) Create() commands.OfferUoW {
	args := m.Called()
	return args.Get(0).(commands.OfferUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// events returns the event names the notifier received, in call order.
func (m *MockNotifier) events() []string {
	var out []string
	for _, call := range m.Calls {
		if call.Method == "Notify" {
			out = append(out, call.Arguments.Get(1).(ports.Notification).Event)
		}
	}
	return out
}

// repos bundles one mock of every repository behind a mocked unit of work.
type repos struct {
	uow        *MockUoW
	factory    *MockUoWFactory
	shipments  *MockShipmentRepository
	offers     *MockOfferRepository
	agreements *MockAgreementRepository
	tracking   *MockTrackingRepository
	wallets    *MockWalletRepository
	notifier   *MockNotifier
}

// newRepos wires every repository accessor and a permissive notifier.
// Transaction calls are left to each test.
func newRepos() *repos {
	r := &repos{
		uow:        new(MockUoW),
		factory:    new(MockUoWFactory),
		shipments:  new(MockShipmentRepository),
		offers:     new(MockOfferRepository),
		agreements: new(MockAgreementRepository),
		tracking:   new(MockTrackingRepository),
		wallets:    new(MockWalletRepository),
		notifier:   new(MockNotifier),
	}
	r.factory.On("Create").Return(r.uow)
	r.uow.On("ShipmentRepository").Return(r.shipments).Maybe()
	r.uow.On("OfferRepository").Return(r.offers).Maybe()
	r.uow.On("AgreementRepository").Return(r.agreements).Maybe()
	r.uow.On("TrackingRepository").Return(r.tracking).Maybe()
	r.uow.On("WalletRepository").Return(r.wallets).Maybe()
	r.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	return r
}

// expectTx expects Begin and the deferred Rollback, plus Commit when commit
// is true.
func (r *repos) expectTx(ctx context.Context, commit bool) {
	r.uow.On("Begin", ctx).Return(nil).Once()
	if commit {
		r.uow.On("Commit", ctx).Return(nil).Once()
	}
	r.uow.On("Rollback", ctx).Return(nil).Once()
}

func (r *repos) assert(t *testing.T) {
	t.Helper()
	r.uow.AssertExpectations(t)
	r.shipments.AssertExpectations(t)
	r.offers.AssertExpectations(t)
	r.agreements.AssertExpectations(t)
	r.tracking.AssertExpectations(t)
	r.wallets.AssertExpectations(t)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	var company *kernel.UUID
	if role == kernel.RoleDriver {
		id := kernel.NewUUID()
		company = &id
	}
	a, err := kernel.NewActor(kernel.NewUUID(), role, company)
	require.NoError(t, err)
	return a
}

func driverOf(t *testing.T, carrierID kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleDriver, &carrierID)
	require.NoError(t, err)
	return a
}

func newTestShipment(t *testing.T, ownerID kernel.UUID) *shipment.Shipment {
	t.Helper()
	pickup, err := shipment.NewPlace("1 Dock Rd", "Lagos")
	require.NoError(t, err)
	delivery, err := shipment.NewPlace("9 Market St", "Abuja")
	require.NoError(t, err)
	route, err := shipment.NewRoute(pickup, delivery)
	require.NoError(t, err)
	cargo, err := shipment.NewCargo("machine parts", 1200, "general")
	require.NoError(t, err)
	budget, err := shipment.NewBudget(kernel.MustMoney("1000"), kernel.MustMoney("2000"))
	require.NoError(t, err)

	s, err := shipment.NewShipment(kernel.NewUUID(), ownerID, route, cargo, budget, nil, testNow.Add(-48*time.Hour))
	require.NoError(t, err)
	return s
}

func newTestOffer(t *testing.T, s *shipment.Shipment, carrierID kernel.UUID, price string) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(
		kernel.NewUUID(), s.ID(), carrierID, kernel.MustMoney(price), testNow.Add(72*time.Hour), "",
		kernel.DefaultCommissionRate, testNow.Add(-time.Hour), offer.DefaultTTL,
	)
	require.NoError(t, err)
	return o
}

// acceptedFixture is a shipment with an accepted offer and the pending
// agreement and commission derived from it.
type acceptedFixture struct {
	shipment   *shipment.Shipment
	offer      *offer.Offer
	agreement  *agreement.Agreement
	commission *agreement.Commission
	sender     kernel.Actor
	carrier    kernel.Actor
}

func newAcceptedFixture(t *testing.T, price string) acceptedFixture {
	t.Helper()
	sender := newActor(t, kernel.RoleSender)
	carrier := newActor(t, kernel.RoleCarrier)
	s := newTestShipment(t, sender.ID())
	o := newTestOffer(t, s, carrier.ID(), price)

	require.NoError(t, o.Accept(testNow))
	require.NoError(t, s.Accept(o.ID(), o.CarrierID(), o.Price(), o.EstimatedDelivery(), testNow))
	a, err := agreement.NewFromOffer(kernel.NewUUID(), o, sender.ID(), testNow)
	require.NoError(t, err)
	c, err := agreement.NewCommission(kernel.NewUUID(), a, o.Rate(), testNow)
	require.NoError(t, err)

	return acceptedFixture{shipment: s, offer: o, agreement: a, commission: c, sender: sender, carrier: carrier}
}

// inProgress accepts the agreement and commission and starts fulfillment.
func (f acceptedFixture) inProgress(t *testing.T) acceptedFixture {
	t.Helper()
	require.NoError(t, f.agreement.Accept(testNow))
	require.NoError(t, f.commission.Accept(testNow))
	require.NoError(t, f.shipment.MoveTo(shipment.InProgress, "", testNow))
	return f
}
