// Package indicator accumulates recent life changes per seat for transient
// display next to the life total. Rapid single-unit taps are batched into
// one update instead of flickering per tap; hold-driven steps already
// arrive at a controlled cadence and show immediately. Like the gesture
// classifier, the tracker reads an injected clock and is advanced by
// explicit ticks.
package indicator

import "time"

const (
	// TapBatchWindow is how long consecutive taps coalesce before the
	// summed delta is displayed.
	TapBatchWindow = 200 * time.Millisecond

	// ImmediateThreshold is the magnitude at or above which a change
	// bypasses batching.
	ImmediateThreshold = 9

	// FadeAfter clears a displayed delta this long after the most recent
	// contributing change.
	FadeAfter = 3 * time.Second
)

type seatState struct {
	displayed int
	pending   int
	flushAt   time.Time
	fadeAt    time.Time
}

// Tracker holds the per-seat running change counters. Not safe for
// concurrent use.
type Tracker struct {
	now   func() time.Time
	seats map[int]*seatState
}

// New builds a tracker on the given clock.
func New(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now, seats: make(map[int]*seatState)}
}

// Record adds a life change for a seat. Every contribution, batched or
// immediate, pushes the fade deadline out.
func (t *Tracker) Record(seat, delta int) {
	if delta == 0 {
		return
	}
	now := t.now()
	s := t.seats[seat]
	if s == nil {
		s = &seatState{}
		t.seats[seat] = s
	}
	s.fadeAt = now.Add(FadeAfter)

	if delta >= ImmediateThreshold || delta <= -ImmediateThreshold {
		s.displayed += s.pending + delta
		s.pending = 0
		return
	}

	if s.pending == 0 {
		s.flushAt = now.Add(TapBatchWindow)
	}
	s.pending += delta
}

// Tick flushes due tap batches and clears faded indicators.
func (t *Tracker) Tick() {
	now := t.now()
	for seat, s := range t.seats {
		if s.pending != 0 && !now.Before(s.flushAt) {
			s.displayed += s.pending
			s.pending = 0
		}
		if !now.Before(s.fadeAt) {
			delete(t.seats, seat)
		}
	}
}

// Visible returns the delta currently shown for a seat, if any. Pending
// batches are not visible until their window closes.
func (t *Tracker) Visible(seat int) (int, bool) {
	s := t.seats[seat]
	if s == nil || s.displayed == 0 {
		return 0, false
	}
	return s.displayed, true
}
