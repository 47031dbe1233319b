package service

import (
	"context"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
)

// apply runs one pure transition and, on success, commits it and queues a
// snapshot write. Mutations are applied in call order; the snapshot is
// last-write-wins.
func (s *MatchService) apply(ctx context.Context, op func(domain.Session) (domain.Session, error)) (domain.Session, error) {
	if !s.active {
		return domain.Session{}, ErrNoSession
	}
	next, err := op(s.session)
	if err != nil {
		return domain.Session{}, err
	}
	s.session = next
	s.saveSnapshot(ctx)
	return next, nil
}

// AdjustLife changes a seat's life total.
func (s *MatchService) AdjustLife(ctx context.Context, seat, delta int) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.AdjustLife(session, seat, delta)
	})
}

// AdjustCommanderDamage changes one attacker counter and reconciles the
// victim's life by the delta.
func (s *MatchService) AdjustCommanderDamage(ctx context.Context, victim, attacker, delta int, source domain.DamageSource) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.AdjustCommanderDamage(session, victim, attacker, delta, source)
	})
}

// AdjustPoison changes a seat's poison counters.
func (s *MatchService) AdjustPoison(ctx context.Context, seat, delta int) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.AdjustPoison(session, seat, delta)
	})
}

// ToggleElimination flips a seat's elimination flag.
func (s *MatchService) ToggleElimination(ctx context.Context, seat int) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.ToggleElimination(session, seat)
	})
}

// RotateSeats advances the display rotation one step.
func (s *MatchService) RotateSeats(ctx context.Context) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.RotateSeats(session), nil
	})
}

// SetStartingLife moves the starting life one ladder step and resets every
// player's life to it.
func (s *MatchService) SetStartingLife(ctx context.Context, life int) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.SetStartingLife(session, life)
	})
}

// StartTurnTracking begins counting turns at 1.
func (s *MatchService) StartTurnTracking(ctx context.Context) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.StartTurnTracking(session), nil
	})
}

// AdvanceTurn increments the turn counter.
func (s *MatchService) AdvanceTurn(ctx context.Context) (domain.Session, error) {
	return s.apply(ctx, domain.AdvanceTurn)
}

// AdjustTurnNumber corrects the turn counter manually.
func (s *MatchService) AdjustTurnNumber(ctx context.Context, delta int) (domain.Session, error) {
	return s.apply(ctx, func(session domain.Session) (domain.Session, error) {
		return domain.AdjustTurnNumber(session, delta), nil
	})
}

// BackToLive dismisses the completion prompt without altering totals.
func (s *MatchService) BackToLive(ctx context.Context) (domain.Session, error) {
	return s.apply(ctx, domain.BackToLive)
}
