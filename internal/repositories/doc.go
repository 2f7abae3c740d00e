// Package repositories implements SQLite persistence for conversion history.
//
// Key Implementations:
//   - [ConversionRepository] : One record per conversion with its per-track outcomes
//
// A record and its items are written in one transaction, so history never holds a partial conversion.
// Deletes remove items explicitly because foreign key enforcement is off by default in SQLite.
package repositories
