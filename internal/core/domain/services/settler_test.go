package services_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/agreement"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/wallet"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	shipment   *shipment.Shipment
	commission *agreement.Commission
	wallet     *wallet.Wallet
}

func newSettlementFixture(t *testing.T, price string) settlementFixture {
	t.Helper()
	ownerID := kernel.NewUUID()
	s := newOpenShipment(t, ownerID)
	o := newOfferFor(t, s, price)

	_, err := services.NewOfferMatcher().Accept(s, []*offer.Offer{o}, o.ID(), newSender(t, ownerID), now)
	require.NoError(t, err)

	a, err := agreement.NewFromOffer(kernel.NewUUID(), o, ownerID, now)
	require.NoError(t, err)
	c, err := agreement.NewCommission(kernel.NewUUID(), a, o.Rate(), now)
	require.NoError(t, err)
	w, err := wallet.NewWallet(o.CarrierID(), now)
	require.NoError(t, err)

	return settlementFixture{shipment: s, commission: c, wallet: w}
}

func (f settlementFixture) complete(t *testing.T) {
	t.Helper()
	require.NoError(t, f.commission.Accept(now))
	for _, next := range []shipment.Status{shipment.InProgress, shipment.InTransit, shipment.Delivered, shipment.Completed} {
		require.NoError(t, f.shipment.MoveTo(next, "", now))
	}
}

func TestSettler_Settle(t *testing.T) {
	t.Run("should credit the carrier share once", func(t *testing.T) {
		f := newSettlementFixture(t, "1500")
		f.complete(t)
		settler := services.NewSettler()

		first, err := settler.Settle(f.shipment, f.commission, f.wallet, kernel.NewUUID(), now.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, first.Settled)
		assert.Equal(t, "1485.00", first.CarrierAmount.String())
		assert.Equal(t, "15.00", first.Commission.String())
		assert.Equal(t, "1485.00", f.wallet.Balance().String())
		assert.True(t, first.Transaction.ReferenceID().IsEqual(f.commission.ID()))
		assert.True(t, f.commission.IsCompleted())

		second, err := settler.Settle(f.shipment, f.commission, f.wallet, kernel.NewUUID(), now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, second.Settled)
		assert.Nil(t, second.Transaction)
		assert.Equal(t, "1485.00", f.wallet.Balance().String())
	})

	t.Run("should refuse a shipment that is not completed", func(t *testing.T) {
		f := newSettlementFixture(t, "1500")
		require.NoError(t, f.commission.Accept(now))

		_, err := services.NewSettler().Settle(f.shipment, f.commission, f.wallet, kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, f.wallet.Balance().IsZero())
	})

	t.Run("should refuse a commission that was never accepted", func(t *testing.T) {
		f := newSettlementFixture(t, "1500")
		require.NoError(t, f.shipment.MoveTo(shipment.InProgress, "", now))
		require.NoError(t, f.shipment.MoveTo(shipment.Completed, "", now))

		_, err := services.NewSettler().Settle(f.shipment, f.commission, f.wallet, kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, agreement.CommissionPending, f.commission.Status())
		assert.True(t, f.wallet.Balance().IsZero())
	})

	t.Run("should credit the share fixed at the offer's rate", func(t *testing.T) {
		ownerID := kernel.NewUUID()
		s := newOpenShipment(t, ownerID)
		o, err := offer.NewOffer(
			kernel.NewUUID(), s.ID(), kernel.NewUUID(), kernel.MustMoney("1000"), now.Add(72*time.Hour), "",
			kernel.MustCommissionRate("0.05"), now, offer.DefaultTTL,
		)
		require.NoError(t, err)
		_, err = services.NewOfferMatcher().Accept(s, []*offer.Offer{o}, o.ID(), newSender(t, ownerID), now)
		require.NoError(t, err)
		a, err := agreement.NewFromOffer(kernel.NewUUID(), o, ownerID, now)
		require.NoError(t, err)
		c, err := agreement.NewCommission(kernel.NewUUID(), a, kernel.DefaultCommissionRate, now)
		require.NoError(t, err)
		w, err := wallet.NewWallet(o.CarrierID(), now)
		require.NoError(t, err)
		f := settlementFixture{shipment: s, commission: c, wallet: w}
		f.complete(t)

		got, err := services.NewSettler().Settle(f.shipment, f.commission, f.wallet, kernel.NewUUID(), now)

		require.NoError(t, err)
		assert.Equal(t, "950.00", got.CarrierAmount.String())
		assert.Equal(t, "950.00", f.wallet.Balance().String())
	})

	t.Run("should refuse a wallet of someone else", func(t *testing.T) {
		f := newSettlementFixture(t, "1500")
		f.complete(t)
		stranger, err := wallet.NewWallet(kernel.NewUUID(), now)
		require.NoError(t, err)

		_, err = services.NewSettler().Settle(f.shipment, f.commission, stranger, kernel.NewUUID(), now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
