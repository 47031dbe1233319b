// Package storage defines the persistence interfaces for the match engine.
//
// It separates the two durability tiers the tracker relies on: the local
// single-slot snapshot that makes a live session resumable, and the remote
// row-store of record where finished games land. Implementations of these
// interfaces (bbolt for the local tier, SQLite for the remote tier) live in
// subpackages.
//
// # Error Types
//
// The package defines common error types used across storage implementations:
//   - ErrNotFound: Indicates a requested record is missing.
package storage
