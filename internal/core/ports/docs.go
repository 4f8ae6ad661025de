// Package ports defines the contracts between the marketplace core and its
// infrastructure: repositories bound to a unit of work, the notification rail
// and the read cache.
package ports
