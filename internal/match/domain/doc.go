// Package domain models a live Commander match: per-seat life, poison,
// commander damage, elimination, turn tracking, and the session lifecycle
// phases. All state transitions are pure functions over Session values so
// the engine can be driven from a single UI event loop and replayed from
// snapshots without side effects.
package domain
