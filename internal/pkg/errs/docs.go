// Package errs provides the error taxonomy of the freight marketplace.
//
// Every failure surfaced by a use case belongs to one Kind:
//   - NotFound: a shipment, offer, agreement or wallet does not exist
//   - Forbidden: the actor is not allowed to perform the operation
//   - InvalidState: the aggregate is in a state that does not allow the operation
//     (already processed, shipment not open, invalid status transition)
//   - Expired: an offer is past its expiry time
//   - Conflict: a concurrent operation won the race, or a uniqueness rule was hit
//   - Validation: a value is missing, malformed or out of range
//
// Each kind follows the same pattern: a sentinel error (ErrObjectNotFound,
// ErrForbidden, ...), a struct type carrying details, constructors with and
// without cause, and Unwrap returning the sentinel so errors.Is works across
// wrapping layers. KindOf classifies any error into a Kind; errors that match
// no sentinel are Internal.
package errs
