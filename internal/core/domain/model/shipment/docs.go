// Package shipment holds the Shipment aggregate of the registry together with
// its route, cargo and budget value objects.
//
// Status carries the single transition table of the marketplace. Creation,
// acceptance, reopening, cancellation and every tracked fulfillment step move
// the status through that table, so no entry point can bypass it.
package shipment
