package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRespondToAgreementCommandHandler_Handle_Accept(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500")

	r.expectTx(ctx, true)
	r.agreements.On("Get", ctx, f.agreement.ID()).Return(f.agreement, nil).Twice()
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.agreements.On("GetCommissionByAgreementID", ctx, f.agreement.ID()).Return(f.commission, nil).Once()
	r.agreements.On("Update", ctx, f.agreement).Return(nil).Once()
	r.agreements.On("UpdateCommission", ctx, f.commission).Return(nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	cmd, err := commands.NewRespondToAgreementCommand(f.carrier, f.agreement.ID(), true)
	require.NoError(t, err)
	got, err := commands.NewRespondToAgreementCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, agreement.StatusAccepted, got.Agreement.Status())
	assert.Equal(t, agreement.CommissionAccepted, f.commission.Status())
	assert.Equal(t, shipment.InProgress, got.Shipment.Status())
	assert.Equal(t, []string{ports.EventAgreementAccepted}, r.notifier.events())
	r.assert(t)
}

func TestRespondToAgreementCommandHandler_Handle_RejectReopensShipment(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500")

	r.expectTx(ctx, true)
	r.agreements.On("Get", ctx, f.agreement.ID()).Return(f.agreement, nil).Twice()
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()
	r.agreements.On("Update", ctx, f.agreement).Return(nil).Once()
	r.offers.On("Get", ctx, f.offer.ID()).Return(f.offer, nil).Once()
	r.offers.On("Update", ctx, f.offer).Return(nil).Once()
	r.agreements.On("GetByOfferID", ctx, f.offer.ID()).Return(f.agreement, nil).Once()
	r.shipments.On("Update", ctx, f.shipment).Return(nil).Once()
	r.tracking.On("Append", ctx, mock.Anything).Return(nil).Once()

	cmd, err := commands.NewRespondToAgreementCommand(f.carrier, f.agreement.ID(), false)
	require.NoError(t, err)
	got, err := commands.NewRespondToAgreementCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, agreement.StatusRejected, got.Agreement.Status())
	assert.Equal(t, offer.Cancelled, f.offer.Status())
	assert.Equal(t, shipment.Pending, got.Shipment.Status())
	assert.Nil(t, got.Shipment.AcceptedOfferID())
	assert.Equal(t, agreement.CommissionPending, f.commission.Status())
	assert.Equal(t, []string{ports.EventAgreementRejected}, r.notifier.events())
	r.assert(t)
}

func TestRespondToAgreementCommandHandler_Handle_SenderIsForbidden(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500")

	r.expectTx(ctx, false)
	r.agreements.On("Get", ctx, f.agreement.ID()).Return(f.agreement, nil).Twice()
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	cmd, err := commands.NewRespondToAgreementCommand(f.sender, f.agreement.ID(), true)
	require.NoError(t, err)
	_, err = commands.NewRespondToAgreementCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.True(t, f.agreement.IsPending())
	r.assert(t)
}

func TestRespondToAgreementCommandHandler_Handle_SecondResponseIsInvalidState(t *testing.T) {
	ctx := t.Context()
	r := newRepos()
	f := newAcceptedFixture(t, "1500").inProgress(t)

	r.expectTx(ctx, false)
	r.agreements.On("Get", ctx, f.agreement.ID()).Return(f.agreement, nil).Twice()
	r.shipments.On("GetForUpdate", ctx, f.shipment.ID()).Return(f.shipment, nil).Once()

	cmd, err := commands.NewRespondToAgreementCommand(f.carrier, f.agreement.ID(), false)
	require.NoError(t, err)
	_, err = commands.NewRespondToAgreementCommandHandler(r.factory, r.notifier, fixedClock).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, agreement.StatusAccepted, f.agreement.Status())
	r.assert(t)
}
