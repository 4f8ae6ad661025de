// Package wallet keeps the internal ledger credited by settlement: a Wallet
// per user and its append-only Transactions.
package wallet
