package domain

import "errors"

const (
	// LethalCommanderDamage is the per-attacker total that eliminates.
	LethalCommanderDamage = 21
	// LethalPoison is the poison count that eliminates.
	LethalPoison = 10
)

var (
	// ErrNotMutable indicates a counter mutation outside live play.
	ErrNotMutable = errors.New("session is not in a mutable phase")
	// ErrTurnTrackingInactive indicates AdvanceTurn before tracking started.
	ErrTurnTrackingInactive = errors.New("turn tracking has not been started")
	// ErrStartingLifeNotAdjacent indicates a starting-life jump of more than
	// one ladder step.
	ErrStartingLifeNotAdjacent = errors.New("starting life must move one step on the ladder")
)

// mutable reports whether counter operations apply in the current phase.
// AwaitingCompletion stays mutable so a manual un-elimination can dismiss
// the completion prompt and return the session to live play.
func (s Session) mutable() bool {
	return s.Phase == PhaseLive || s.Phase == PhaseAwaitingCompletion
}

// AdjustLife applies a signed life change to the seat. Life is not clamped
// and may go negative; reaching zero or below marks the seat eliminated.
// Elimination is sticky: raising life back above zero does not clear it.
func AdjustLife(s Session, seat, delta int) (Session, error) {
	if !s.mutable() {
		return Session{}, ErrNotMutable
	}
	if !s.validSeat(seat) {
		return Session{}, ErrSeatOutOfRange
	}

	updated := s.clone()
	p := &updated.Players[seat]
	p.Life += delta
	if p.Life <= 0 {
		p.Eliminated = true
	}
	return evaluatePhase(updated), nil
}

// AdjustCommanderDamage updates one of the attacker's damage counters
// against the victim, clamped at zero. The victim's life absorbs exactly
// the change in the attacker's total, never the absolute counter value, so
// repeated adjustments cannot compound. Reaching 21 total from a single
// attacker eliminates the victim regardless of life.
func AdjustCommanderDamage(s Session, victim, attacker, delta int, source DamageSource) (Session, error) {
	if !s.mutable() {
		return Session{}, ErrNotMutable
	}
	if !s.validSeat(victim) || !s.validSeat(attacker) {
		return Session{}, ErrSeatOutOfRange
	}
	if source != SourcePrimary && source != SourcePartner {
		return Session{}, ErrInvalidDamageSource
	}

	updated := s.clone()
	p := &updated.Players[victim]
	entry := p.CommanderDamage[attacker]
	oldTotal := entry.Total()

	switch source {
	case SourcePrimary:
		entry.Primary = max(0, entry.Primary+delta)
	case SourcePartner:
		entry.Partner = max(0, entry.Partner+delta)
	}
	if p.CommanderDamage == nil {
		p.CommanderDamage = map[int]DamageEntry{}
	}
	p.CommanderDamage[attacker] = entry

	p.Life -= entry.Total() - oldTotal
	if entry.Total() >= LethalCommanderDamage || p.Life <= 0 {
		p.Eliminated = true
	}
	return evaluatePhase(updated), nil
}

// AdjustPoison applies a signed poison change clamped to [0, 10]. Reaching
// ten poison eliminates the seat.
func AdjustPoison(s Session, seat, delta int) (Session, error) {
	if !s.mutable() {
		return Session{}, ErrNotMutable
	}
	if !s.validSeat(seat) {
		return Session{}, ErrSeatOutOfRange
	}

	updated := s.clone()
	p := &updated.Players[seat]
	p.Poison = min(LethalPoison, max(0, p.Poison+delta))
	if p.Poison >= LethalPoison {
		p.Eliminated = true
	}
	return evaluatePhase(updated), nil
}

// ToggleElimination flips the seat's eliminated flag unconditionally. This
// is the only operation that can clear elimination, and it may leave a
// non-eliminated player with lethal commander damage on the books.
func ToggleElimination(s Session, seat int) (Session, error) {
	if !s.mutable() {
		return Session{}, ErrNotMutable
	}
	if !s.validSeat(seat) {
		return Session{}, ErrSeatOutOfRange
	}

	updated := s.clone()
	updated.Players[seat].Eliminated = !updated.Players[seat].Eliminated
	return evaluatePhase(updated), nil
}

// RotateSeats advances the display rotation by one step. Seat identities
// and stats are untouched.
func RotateSeats(s Session) Session {
	updated := s.clone()
	updated.SeatRotationOffset = (updated.SeatRotationOffset + 1) % len(updated.Players)
	return updated
}

// SetStartingLife moves the starting life one step along the ladder and
// resets every player's life to the new value. It deliberately leaves
// commander damage, poison, and elimination flags alone and does not
// recompute elimination; it is a reset control, not a correction.
func SetStartingLife(s Session, newValue int) (Session, error) {
	current := ladderIndex(s.StartingLife)
	target := ladderIndex(newValue)
	if target == -1 {
		return Session{}, ErrStartingLifeNotAdjacent
	}
	if current == -1 || abs(target-current) != 1 {
		return Session{}, ErrStartingLifeNotAdjacent
	}

	updated := s.clone()
	updated.StartingLife = newValue
	for i := range updated.Players {
		updated.Players[i].Life = newValue
	}
	return updated, nil
}

// StartTurnTracking activates the turn counter at turn one. Once active it
// never deactivates; calling again is a no-op.
func StartTurnTracking(s Session) Session {
	if s.TurnTrackingActive {
		return s
	}
	updated := s.clone()
	updated.TurnTrackingActive = true
	updated.TurnNumber = 1
	return updated
}

// AdvanceTurn increments the turn counter. Tracking must be active.
func AdvanceTurn(s Session) (Session, error) {
	if !s.TurnTrackingActive {
		return Session{}, ErrTurnTrackingInactive
	}
	updated := s.clone()
	updated.TurnNumber++
	return updated, nil
}

// AdjustTurnNumber applies a signed manual correction, floored at zero.
// It neither requires nor activates turn tracking.
func AdjustTurnNumber(s Session, delta int) Session {
	updated := s.clone()
	updated.TurnNumber = max(0, updated.TurnNumber+delta)
	return updated
}

func ladderIndex(value int) int {
	for i, v := range StartingLifeLadder {
		if v == value {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
