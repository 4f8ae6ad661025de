package tracking_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/tracking"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("should snapshot status and trim text", func(t *testing.T) {
		e, err := tracking.NewEvent(
			kernel.NewUUID(), kernel.NewUUID(), shipment.InTransit, " A2 near Venlo ", "  on schedule", kernel.NewUUID(), at,
		)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, shipment.InTransit, e.Status())
		assert.Equal(t, "A2 near Venlo", e.Location())
		assert.Equal(t, "on schedule", e.Note())
		assert.Equal(t, time.UTC, e.CreatedAt().Location())
	})

	t.Run("should require identifiers and status", func(t *testing.T) {
		_, err := tracking.NewEvent(kernel.UUID{}, kernel.NewUUID(), shipment.Unknown, "", "", kernel.UUID{}, at)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var e *tracking.Event
		require.ErrorIs(t, e.Validate(), tracking.ErrEventIsNotConstructed)
	})
}
