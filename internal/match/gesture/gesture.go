// Package gesture classifies raw press/release events on labeled controls
// into semantic actions. Hybrid devices report the same physical press as
// both touch and mouse events, so the classifier absorbs duplicates with a
// per-control debounce window and a single global in-flight gesture. All
// timing is read from an injected clock and advanced by explicit ticks,
// never wall-clock timers.
package gesture

import (
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/haptics"
)

const (
	// HoldThreshold separates a tap from a hold. A release before it
	// emits one tap; crossing it starts the repeat loop.
	HoldThreshold = 500 * time.Millisecond

	// InitialRepeatInterval is the pause between repeat steps before any
	// acceleration kicks in.
	InitialRepeatInterval = 500 * time.Millisecond

	// MinRepeatInterval is the floor the accelerating schedule never
	// drops below.
	MinRepeatInterval = 50 * time.Millisecond

	// RepeatAcceleration multiplies the interval each step once the hold
	// has contributed more than AccelerateAfter units.
	RepeatAcceleration = 0.8

	// AccelerateAfter is the cumulative hold magnitude past which the
	// repeat interval starts shrinking.
	AccelerateAfter = 50

	// TapStep and RepeatStep are the unsigned magnitudes of a tap and of
	// one repeat-loop step.
	TapStep    = 1
	RepeatStep = 10

	// DebounceWindow suppresses a second press-start on the same control
	// as a duplicate device event.
	DebounceWindow = 100 * time.Millisecond

	// InputLockDuration ignores all gesture starts after a modal closes,
	// so the closing tap cannot bleed into an underlying control.
	InputLockDuration = 250 * time.Millisecond

	// HapticPulse is the requested vibration length for each repeat step.
	HapticPulse = 10 * time.Millisecond
)

// Kind distinguishes how an action was produced.
type Kind int

const (
	KindTap Kind = iota
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Control identifies one interactive surface, such as the life-increment
// button for a seat. Modal is the identifier of the popup the control
// belongs to, or empty for the base play surface.
type Control struct {
	ID    string
	Modal string
}

// Action is one semantic result of a physical gesture. Delta carries the
// direction's sign and the step magnitude.
type Action struct {
	Control Control
	Kind    Kind
	Delta   int
}

type press struct {
	control   Control
	direction int
	holdAt    time.Time
	holding   bool
	nextAt    time.Time
	interval  time.Duration
	magnitude int
}

// Classifier turns press/release streams into Actions. It is not safe for
// concurrent use; all events arrive on one loop.
type Classifier struct {
	now     func() time.Time
	emit    func(Action)
	haptics haptics.Driver

	active    *press
	lastStart map[string]time.Time
	openModal string
	lockUntil time.Time
}

// New builds a classifier that reports actions through emit. A nil driver
// falls back to the no-op haptics.
func New(now func() time.Time, emit func(Action), driver haptics.Driver) *Classifier {
	if now == nil {
		now = time.Now
	}
	if driver == nil {
		driver = haptics.Nop{}
	}
	return &Classifier{
		now:       now,
		emit:      emit,
		haptics:   driver,
		lastStart: make(map[string]time.Time),
	}
}

// OpenModal routes all subsequent gestures to controls belonging to the
// named modal. Any gesture in flight on the base surface is abandoned
// without emitting.
func (c *Classifier) OpenModal(id string) {
	c.openModal = id
	if c.active != nil && c.active.control.Modal != id {
		c.active = nil
	}
}

// CloseModal restores the base surface and locks out gesture starts for
// InputLockDuration so the closing tap is not reinterpreted.
func (c *Classifier) CloseModal() {
	c.openModal = ""
	c.active = nil
	c.lockUntil = c.now().Add(InputLockDuration)
}

// PressStart begins tracking a physical press. direction must be +1 or -1.
// Duplicate, locked-out, modal-mismatched, and concurrent starts are
// absorbed silently.
func (c *Classifier) PressStart(control Control, direction int) {
	if control.ID == "" || (direction != 1 && direction != -1) {
		return
	}
	now := c.now()
	if now.Before(c.lockUntil) {
		return
	}
	if control.Modal != c.openModal {
		return
	}
	if last, ok := c.lastStart[control.ID]; ok && now.Sub(last) < DebounceWindow {
		return
	}
	if c.active != nil {
		return
	}
	c.lastStart[control.ID] = now
	c.active = &press{
		control:   control,
		direction: direction,
		holdAt:    now.Add(HoldThreshold),
		interval:  InitialRepeatInterval,
	}
}

// PressEnd resolves the in-flight gesture. A release before the hold
// threshold emits one tap; after it, the repeat loop simply stops and no
// tap is added.
func (c *Classifier) PressEnd(control Control) {
	p := c.active
	if p == nil || p.control != control {
		return
	}
	c.active = nil
	if p.holding {
		return
	}
	c.emit(Action{Control: p.control, Kind: KindTap, Delta: TapStep * p.direction})
}

// Tick advances the classifier to the clock's current time, emitting any
// repeat steps that have come due. Hosts call it from their frame or timer
// loop; tests drive it with a fake clock.
func (c *Classifier) Tick() {
	p := c.active
	if p == nil {
		return
	}
	now := c.now()
	if !p.holding {
		if now.Before(p.holdAt) {
			return
		}
		p.holding = true
		p.nextAt = p.holdAt
	}
	for !now.Before(p.nextAt) {
		c.emit(Action{Control: p.control, Kind: KindRepeat, Delta: RepeatStep * p.direction})
		c.haptics.Pulse(HapticPulse)
		p.magnitude += RepeatStep
		if p.magnitude > AccelerateAfter {
			p.interval = time.Duration(float64(p.interval) * RepeatAcceleration)
			if p.interval < MinRepeatInterval {
				p.interval = MinRepeatInterval
			}
		}
		p.nextAt = p.nextAt.Add(p.interval)
	}
}

// Pending reports whether a gesture is currently in flight.
func (c *Classifier) Pending() bool {
	return c.active != nil
}
