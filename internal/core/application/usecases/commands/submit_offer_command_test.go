package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitOfferCommand_ValidInput(t *testing.T) {
	actor := newActor(t, kernel.RoleCarrier)
	shipmentID := kernel.NewUUID()
	eta := testNow.Add(48 * time.Hour)

	cmd, err := commands.NewSubmitOfferCommand(actor, shipmentID, kernel.MustMoney("1500"), eta, "  fast  ")

	require.NoError(t, err)
	assert.Equal(t, shipmentID, cmd.ShipmentID())
	assert.Equal(t, "1500.00", cmd.Price().String())
	assert.Equal(t, eta, cmd.EstimatedDelivery())
	assert.Equal(t, "fast", cmd.Message())
}

func TestNewSubmitOfferCommand_MissingFields(t *testing.T) {
	_, err := commands.NewSubmitOfferCommand(
		newActor(t, kernel.RoleCarrier), kernel.UUID{}, kernel.MustMoney("10"), time.Time{}, "",
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
