// Package screenwake abstracts keep-awake and fullscreen requests around a
// live tracking session. Both are best-effort: a host that cannot honor
// them degrades to normal screen behavior and the session proceeds.
package screenwake

import "context"

// Lock holds the screen awake for the duration of a live session.
type Lock interface {
	// Acquire requests that the screen stay awake. Failure is reported
	// so it can be logged, never acted on.
	Acquire(ctx context.Context) error
	// Release lets the screen sleep again. Releasing an unacquired lock
	// is a no-op.
	Release(ctx context.Context) error
}

// Nop satisfies Lock without touching the host.
type Nop struct{}

func (Nop) Acquire(context.Context) error { return nil }
func (Nop) Release(context.Context) error { return nil }
