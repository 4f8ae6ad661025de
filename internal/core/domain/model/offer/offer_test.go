package offer_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/offer"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestOffer(t *testing.T, price string) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney(price), now.Add(48*time.Hour), " fast and careful ",
		kernel.DefaultCommissionRate, now, offer.DefaultTTL,
	)
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	t.Run("should compute commission and expiry", func(t *testing.T) {
		o := newTestOffer(t, "1500")

		require.NoError(t, o.Validate())
		assert.Equal(t, offer.Pending, o.Status())
		assert.Equal(t, "15.00", o.Commission().String())
		assert.Equal(t, now.Add(7*24*time.Hour), o.ExpiresAt())
		assert.Equal(t, "fast and careful", o.Message())
	})

	t.Run("should report every invalid field", func(t *testing.T) {
		_, err := offer.NewOffer(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.ZeroMoney(), time.Time{}, "",
			kernel.DefaultCommissionRate, now, 0,
		)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "offer price")
		assert.Contains(t, err.Error(), "estimated delivery")
		assert.Contains(t, err.Error(), "offer ttl")
	})
}

func TestOffer_Accept(t *testing.T) {
	t.Run("should accept pending offer", func(t *testing.T) {
		o := newTestOffer(t, "1500")

		require.NoError(t, o.Accept(now.Add(time.Hour)))
		assert.Equal(t, offer.Accepted, o.Status())
	})

	t.Run("should refuse expired offer and keep it pending", func(t *testing.T) {
		o := newTestOffer(t, "1500")

		err := o.Accept(o.ExpiresAt().Add(time.Second))

		require.ErrorIs(t, err, errs.ErrExpired)
		assert.Equal(t, offer.Pending, o.Status())
	})

	t.Run("should refuse already processed offer", func(t *testing.T) {
		o := newTestOffer(t, "1500")
		require.NoError(t, o.Reject(now))

		require.ErrorIs(t, o.Accept(now), errs.ErrInvalidState)
	})
}

func TestOffer_Cancel(t *testing.T) {
	pending := newTestOffer(t, "100")
	require.NoError(t, pending.Cancel(now))
	assert.Equal(t, offer.Cancelled, pending.Status())

	accepted := newTestOffer(t, "100")
	require.NoError(t, accepted.Accept(now))
	require.NoError(t, accepted.Cancel(now))
	assert.Equal(t, offer.Cancelled, accepted.Status())

	require.ErrorIs(t, accepted.Cancel(now), errs.ErrInvalidState)
}

func TestOffer_Expire(t *testing.T) {
	o := newTestOffer(t, "100")

	require.ErrorIs(t, o.Expire(now), errs.ErrInvalidState)

	later := o.ExpiresAt().Add(time.Minute)
	assert.True(t, o.IsExpired(later))
	require.NoError(t, o.Expire(later))
	assert.Equal(t, offer.Expired, o.Status())
	assert.True(t, o.Status().IsTerminal())
	assert.False(t, o.IsExpired(later))
}

func TestRestoreOffer(t *testing.T) {
	o := newTestOffer(t, "1500")

	restored, err := offer.RestoreOffer(offer.State{
		ID:                o.ID(),
		ShipmentID:        o.ShipmentID(),
		CarrierID:         o.CarrierID(),
		Price:             o.Price(),
		Commission:        o.Commission(),
		Rate:              o.Rate(),
		EstimatedDelivery: o.EstimatedDelivery(),
		Status:            offer.Accepted,
		ExpiresAt:         o.ExpiresAt(),
		Version:           2,
	})

	require.NoError(t, err)
	assert.True(t, restored.BelongsTo(o.ShipmentID()))
	assert.True(t, restored.IsMadeBy(o.CarrierID()))
	assert.Equal(t, int64(2), restored.Version())
	assert.Equal(t, o.Rate().String(), restored.Rate().String())

	_, err = offer.RestoreOffer(offer.State{})
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := offer.ParseStatus("EXPIRED")
	require.NoError(t, err)
	assert.Equal(t, offer.Expired, s)

	_, err = offer.ParseStatus("")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
