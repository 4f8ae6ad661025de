package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/wallet"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recordStatus(
	t *testing.T,
	r *repos,
	actor kernel.Actor,
	s *shipment.Shipment,
	status shipment.Status,
) (*commands.RecordTrackingStatusResult, error) {
	t.Helper()
	cmd, err := commands.NewRecordTrackingStatusCommand(actor, s.ID(), status, "Ibadan", "on schedule")
	require.NoError(t, err)
	return commands.NewRecordTrackingStatusCommandHandler(r.factory, r.notifier, fixedClock).Handle(t.Context(), cmd)
}

func TestNewRecordTrackingStatusCommand_UnknownStatus(t *testing.T) {
	_, err := commands.NewRecordTrackingStatusCommand(
		newActor(t, kernel.RoleCarrier), kernel.NewUUID(), shipment.Unknown, "", "",
	)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRecordTrackingStatusCommandHandler_Handle_CompletedSettlesCarrier(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)
	require.NoError(t, f.shipment.MoveTo(shipment.InTransit, "", testNow))
	require.NoError(t, f.shipment.MoveTo(shipment.Delivered, "", testNow))
	w, err := wallet.NewWallet(f.carrier.ID(), testNow)
	require.NoError(t, err)

	r.expectTx(ctx, true)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.agreements.On("GetByOfferID", ctx, f.offer.ID()).Return(f.agreement, nil).Twice()
	r.agreements.On("GetCommissionByAgreementID", ctx, f.agreement.ID()).Return(f.commission, nil).Twice()
	r.wallets.On("GetForUpdate", ctx, f.carrier.ID()).Return(w, nil).Once()
	r.agreements.On("UpdateCommission", ctx, f.commission).Return(nil).Once()
	r.wallets.On("AppendTransaction", ctx, mock.MatchedBy(func(tx *wallet.Transaction) bool {
		return tx.ReferenceID().IsEqual(f.commission.ID()) && tx.Amount().String() == "1485.00"
	})).Return(nil).Once()
	r.wallets.On("Update", ctx, w).Return(nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	got, err := recordStatus(t, r, f.carrier, f.shipment, shipment.Completed)

	require.NoError(t, err)
	assert.Equal(t, shipment.Completed, got.Shipment.Status())
	assert.Equal(t, shipment.Completed, got.Event.Status())
	assert.Equal(t, "Ibadan", got.Event.Location())
	require.NotNil(t, got.Settlement)
	assert.True(t, got.Settlement.Settled)
	assert.Equal(t, "1485.00", w.Balance().String())
	assert.Equal(t, agreement.CommissionCompleted, f.commission.Status())
	assert.Contains(t, r.notifier.events(), ports.EventWalletCredited)
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_RepeatedCompletedMutatesNothing(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)
	require.NoError(t, f.shipment.MoveTo(shipment.Completed, "", testNow))

	r.expectTx(ctx, false)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	_, err := recordStatus(t, r, f.carrier, f.shipment, shipment.Completed)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	r.wallets.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	r.tracking.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	r.uow.AssertNotCalled(t, "Commit", ctx)
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_FulfillmentAcceptsPendingAgreement(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500")

	r.expectTx(ctx, true)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.agreements.On("GetByOfferID", ctx, f.offer.ID()).Return(f.agreement, nil).Once()
	r.agreements.On("GetCommissionByAgreementID", ctx, f.agreement.ID()).Return(f.commission, nil).Once()
	r.agreements.On("Update", ctx, f.agreement).Return(nil).Once()
	r.agreements.On("UpdateCommission", ctx, f.commission).Return(nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	driver := driverOf(t, f.carrier.ID())
	got, err := recordStatus(t, r, driver, f.shipment, shipment.InTransit)

	require.NoError(t, err)
	assert.Equal(t, shipment.InTransit, got.Shipment.Status())
	assert.Nil(t, got.Settlement)
	assert.Equal(t, agreement.StatusAccepted, f.agreement.Status())
	assert.Equal(t, agreement.CommissionAccepted, f.commission.Status())
	assert.Equal(t, []string{ports.EventShipmentStatus}, r.notifier.events())
	r.notifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.UserID.IsEqual(f.sender.ID())
	}))
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_CarrierCancelRevokesOffer(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)
	require.NoError(t, f.shipment.MoveTo(shipment.PickedUp, "", testNow))

	r.expectTx(ctx, true)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.offers.On("ListByShipment", ctx, f.shipment.ID()).Return([]*offer.Offer{f.offer}, nil).Once()
	r.offers.On("Get", ctx, f.offer.ID()).Return(f.offer, nil).Once()
	r.offers.On("Update", ctx, f.offer).Return(nil).Once()
	r.agreements.On("GetByOfferID", ctx, f.offer.ID()).Return(f.agreement, nil).Once()
	r.agreements.On("Update", ctx, f.agreement).Return(nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	got, err := recordStatus(t, r, f.carrier, f.shipment, shipment.Cancelled)

	require.NoError(t, err)
	assert.Equal(t, shipment.Cancelled, got.Shipment.Status())
	assert.Nil(t, got.Shipment.CarrierID())
	assert.Equal(t, offer.Cancelled, f.offer.Status())
	assert.Equal(t, agreement.StatusRejected, f.agreement.Status())
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_AdminCancelClosesOpenOffers(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	sender := newActor(t, kernel.RoleSender)
	s := newTestShipment(t, sender.ID())
	bidder := kernel.NewUUID()
	o := newTestOffer(t, s, bidder, "1500")

	r.expectTx(ctx, true)
	r.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Once()
	r.offers.On("ListByShipment", ctx, s.ID()).Return([]*offer.Offer{o}, nil).Once()
	r.offers.On("Update", ctx, o).Return(nil).Once()
	r.shipments.On("Update", ctx, s).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	got, err := recordStatus(t, r, newActor(t, kernel.RoleAdmin), s, shipment.Cancelled)

	require.NoError(t, err)
	assert.Equal(t, shipment.Cancelled, got.Shipment.Status())
	assert.Equal(t, offer.Cancelled, o.Status())
	r.agreements.AssertNotCalled(t, "GetByOfferID", mock.Anything, mock.Anything)
	r.notifier.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.UserID.IsEqual(bidder) && n.Event == ports.EventShipmentCancelled
	}))
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_OwnerMayOnlyComplete(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)

	r.expectTx(ctx, false)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	_, err := recordStatus(t, r, f.sender, f.shipment, shipment.InTransit)

	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, shipment.InProgress, f.shipment.Status())
	r.assert(t)
}

func TestRecordTrackingStatusCommandHandler_Handle_PendingIsNotRecordable(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500")

	r.expectTx(ctx, false)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	_, err := recordStatus(t, r, newActor(t, kernel.RoleAdmin), f.shipment, shipment.Pending)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, shipment.Accepted, f.shipment.Status())
	r.assert(t)
}

func TestConfirmDeliveryCommandHandler_Handle_OwnerCompletes(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)
	require.NoError(t, f.shipment.MoveTo(shipment.InTransit, "", testNow))
	w, err := wallet.NewWallet(f.carrier.ID(), testNow)
	require.NoError(t, err)

	r.shipments.On("Get", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.expectTx(ctx, true)
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.agreements.On("GetByOfferID", ctx, f.offer.ID()).Return(f.agreement, nil).Twice()
	r.agreements.On("GetCommissionByAgreementID", ctx, f.agreement.ID()).Return(f.commission, nil).Twice()
	r.wallets.On("GetForUpdate", ctx, f.carrier.ID()).Return(w, nil).Once()
	r.agreements.On("UpdateCommission", ctx, f.commission).Return(nil).Once()
	r.wallets.On("AppendTransaction", ctx, mock.AnythingOfType("*wallet.Transaction")).Return(nil).Once()
	r.wallets.On("Update", ctx, w).Return(nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	cmd, err := commands.NewConfirmDeliveryCommand(f.sender, f.shipment.ID(), "received in good order")
	require.NoError(t, err)
	got, err := commands.NewConfirmDeliveryCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, shipment.Completed, got.Shipment.Status())
	assert.True(t, got.Settlement.Settled)
	assert.Equal(t, "1485.00", w.Balance().String())
	r.assert(t)
}

func TestConfirmDeliveryCommandHandler_Handle_CarrierIsForbidden(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)

	r.shipments.On("Get", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	cmd, err := commands.NewConfirmDeliveryCommand(f.carrier, f.shipment.ID(), "")
	require.NoError(t, err)
	_, err = commands.NewConfirmDeliveryCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	r.uow.AssertNotCalled(t, "Begin", ctx)
	r.assert(t)
}
