package domain

import "errors"

var (
	// ErrNotSetup indicates a live start from a phase other than Setup.
	ErrNotSetup = errors.New("session is not in setup")
	// ErrWinnerPreMarked indicates live tracking was requested for a game
	// that already has a winner marked; that game belongs on the direct
	// submit path instead.
	ErrWinnerPreMarked = errors.New("a winner is already marked")
	// ErrNotAwaitingCompletion indicates a completion attempt outside the
	// end-of-game prompt.
	ErrNotAwaitingCompletion = errors.New("session is not awaiting completion")
	// ErrNoWinner indicates completion with no surviving player; one seat
	// must be restored before the game can be confirmed.
	ErrNoWinner = errors.New("no non-eliminated player remains")
	// ErrWinConditionRequired indicates a missing win-condition tag while
	// the playgroup has advanced stats enabled.
	ErrWinConditionRequired = errors.New("win condition is required")
	// ErrNotCancellable indicates a cancel from a terminal or prompt phase.
	ErrNotCancellable = errors.New("session cannot be cancelled from this phase")
)

// evaluatePhase recomputes the live/awaiting-completion edge after a counter
// mutation. The phase itself encodes the previous side of the edge, so the
// prompt fires exactly once when the active count drops from two or more to
// one, and dismisses when a manual un-elimination brings it back up.
func evaluatePhase(s Session) Session {
	switch s.Phase {
	case PhaseLive:
		if ActiveCount(s) == 1 {
			s.Phase = PhaseAwaitingCompletion
		}
	case PhaseAwaitingCompletion:
		if ActiveCount(s) >= 2 {
			s.Phase = PhaseLive
		}
	}
	return s
}

// EvaluatePhase re-derives the live/awaiting-completion edge for a session
// restored from a snapshot, so a resumed game with one survivor re-enters
// the completion prompt immediately.
func EvaluatePhase(s Session) Session {
	return evaluatePhase(s)
}

// StartLive moves a Setup session into live tracking. A pre-marked winner
// rejects the transition: that game is already decided.
func StartLive(s Session) (Session, error) {
	if s.Phase != PhaseSetup {
		return Session{}, ErrNotSetup
	}
	for _, p := range s.Players {
		if p.Winner {
			return Session{}, ErrWinnerPreMarked
		}
	}
	updated := s.clone()
	updated.Phase = PhaseLive
	return updated, nil
}

// BackToLive dismisses the completion prompt without altering any totals.
func BackToLive(s Session) (Session, error) {
	if s.Phase != PhaseAwaitingCompletion {
		return Session{}, ErrNotAwaitingCompletion
	}
	updated := s.clone()
	updated.Phase = PhaseLive
	return updated, nil
}

// Complete confirms the end of the game: the sole survivor is marked the
// winner and the session becomes terminal. The win condition is mandatory
// when advanced stats are enabled and ignored otherwise.
func Complete(s Session, condition WinCondition) (Session, error) {
	if s.Phase != PhaseAwaitingCompletion {
		return Session{}, ErrNotAwaitingCompletion
	}
	winner, ok := Winner(s)
	if !ok {
		return Session{}, ErrNoWinner
	}
	if s.AdvancedStats {
		if !ValidWinCondition(condition) {
			return Session{}, ErrWinConditionRequired
		}
	}

	updated := s.clone()
	for i := range updated.Players {
		updated.Players[i].Winner = updated.Players[i].Seat == winner.Seat
	}
	updated.Phase = PhaseCompleted
	return updated, nil
}

// Cancel abandons the session. Only Setup and Live sessions can be
// cancelled; the completion prompt offers Back instead.
func Cancel(s Session) (Session, error) {
	if s.Phase != PhaseSetup && s.Phase != PhaseLive {
		return Session{}, ErrNotCancellable
	}
	updated := s.clone()
	updated.Phase = PhaseCancelled
	return updated, nil
}
