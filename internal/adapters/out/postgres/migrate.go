package postgres

import (
	"freight/internal/adapters/out/postgres/agreementrepo"
	"freight/internal/adapters/out/postgres/offerrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/adapters/out/postgres/trackingrepo"
	"freight/internal/adapters/out/postgres/walletrepo"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// partialIndexes back the offer book rules that AutoMigrate cannot express:
// one accepted offer per shipment and one pending offer per carrier and
// shipment.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_one_accepted
		ON offers (shipment_id) WHERE status = 'accepted'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_one_pending_per_carrier
		ON offers (shipment_id, carrier_id) WHERE status = 'pending'`,
}

// Migrate creates or updates every marketplace table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&offerrepo.OfferDTO{},
		&agreementrepo.AgreementDTO{},
		&agreementrepo.CommissionDTO{},
		&trackingrepo.EventDTO{},
		&walletrepo.WalletDTO{},
		&walletrepo.TransactionDTO{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "create partial index")
		}
	}
	return nil
}
