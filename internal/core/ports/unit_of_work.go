package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then notifies the commit
	// observers about every aggregate written in it.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	ShipmentRepository() ShipmentRepository
	OfferRepository() OfferRepository
	AgreementRepository() AgreementRepository
	TrackingRepository() TrackingRepository
	WalletRepository() WalletRepository
}

// CommitObserver is told which shipments a committed transaction changed.
// It runs after the commit and cannot fail the transaction.
type CommitObserver interface {
	AfterCommit(ctx context.Context, shipmentIDs []string)
}
