// Package kernel holds the value objects shared by every aggregate of the
// freight marketplace:
//   - UUID: identifier of shipments, offers, agreements, commissions, users
//   - Money: a non-negative decimal amount with two fractional digits
//   - CommissionRate: the platform's single configured cut of an agreed price
//   - Actor: the authenticated caller with its role
//   - Version: optimistic concurrency counter embedded in mutable aggregates
//
// All of them are immutable after construction except Version, and every
// constructor-built value can be told apart from its zero value by Validate.
package kernel
