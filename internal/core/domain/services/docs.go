// Package services provides domain services that coordinate several
// aggregates of the marketplace.
//
// The package includes:
//   - OfferMatcher: accepts one offer of a shipment and rejects the rest
//   - Settler: splits a completed shipment's price and credits the carrier
//
// Services only change in-memory aggregates; persistence and transaction
// boundaries belong to the application layer.
package services
