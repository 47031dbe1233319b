// Package haptics abstracts best-effort vibration feedback. Devices
// without a vibration capability satisfy the interface with the no-op
// implementation; a failed pulse is never an error anywhere in the engine.
package haptics

import "time"

// Driver fires a vibration pulse of the given duration.
type Driver interface {
	Pulse(duration time.Duration)
}

// Nop ignores all pulses. Used when the host exposes no vibration
// capability.
type Nop struct{}

// Pulse discards the request.
func (Nop) Pulse(time.Duration) {}

// Func adapts a function to the Driver interface.
type Func func(duration time.Duration)

// Pulse calls the wrapped function.
func (f Func) Pulse(duration time.Duration) { f(duration) }
