// Package commands contains business operations that modify marketplace state.
// All commands follow one pattern: validation, a transaction scoped to the
// locked shipment row, persistence, then best-effort notifications after the
// commit.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	AgreementRepoFactory interface {
		AgreementRepository() ports.AgreementRepository
	}

	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// ShipmentUoW covers publishing a shipment and its first tracking event.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
		TrackingRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// OfferUoW covers offer-only maintenance such as the expiry sweep.
	OfferUoW interface {
		TxManager
		OfferRepoFactory
	}

	OfferUoWFactory interface {
		Create() OfferUoW
	}

	// UoW spans every aggregate of the marketplace. Used by the matching,
	// fulfillment and settlement commands.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   s, err := uow.ShipmentRepository().GetForUpdate(ctx, id)
	//   // ... mutate and persist dependents
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ShipmentRepoFactory
		OfferRepoFactory
		AgreementRepoFactory
		TrackingRepoFactory
		WalletRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
