// Package agreement is the ledger side of a match: the Agreement binding a
// sender to the winning carrier and the Commission the platform settles once
// delivery completes.
package agreement
