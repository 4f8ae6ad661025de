// Package offer models the offer book entries carriers place against open
// shipments.
//
// Key business rules:
//   - an offer is pending until it is accepted, rejected, cancelled or expired
//   - only a pending offer within its expiry can be accepted
//   - the commission is derived from the configured rate when the offer is made
package offer
