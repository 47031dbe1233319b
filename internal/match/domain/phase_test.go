package domain

import (
	"errors"
	"testing"
)

func TestStartLiveRejectsPreMarkedWinner(t *testing.T) {
	s, err := NewSession("001-A01", "group-1", seatInputs(4), false)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Players[2].Winner = true
	if _, err := StartLive(s); !errors.Is(err, ErrWinnerPreMarked) {
		t.Fatalf("expected ErrWinnerPreMarked, got %v", err)
	}
}

func TestStartLiveRequiresSetup(t *testing.T) {
	s := newLiveSession(t, 3)
	if _, err := StartLive(s); !errors.Is(err, ErrNotSetup) {
		t.Fatalf("expected ErrNotSetup, got %v", err)
	}
}

func TestGameEndEdgeTriggering(t *testing.T) {
	s := newLiveSession(t, 4)

	var err error
	s, err = ToggleElimination(s, 3)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseLive {
		t.Fatalf("three active players: expected live, got %s", s.Phase)
	}

	s, err = ToggleElimination(s, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseLive {
		t.Fatalf("two active players: expected live, got %s", s.Phase)
	}

	// The prompt fires exactly on the 2 -> 1 edge.
	s, err = ToggleElimination(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("one active player: expected awaiting completion, got %s", s.Phase)
	}

	// Further mutations at one active player do not change the phase.
	s, err = AdjustLife(s, 0, -5)
	if err != nil {
		t.Fatalf("adjust life: %v", err)
	}
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("expected awaiting completion to hold, got %s", s.Phase)
	}

	// Restoring a player dismisses the prompt...
	s, err = ToggleElimination(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseLive {
		t.Fatalf("two active players: expected live again, got %s", s.Phase)
	}

	// ...and eliminating again crosses the edge a second time.
	s, err = ToggleElimination(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("expected awaiting completion after re-elimination, got %s", s.Phase)
	}
}

func TestBackToLive(t *testing.T) {
	s := newLiveSession(t, 3)
	var err error
	s, err = ToggleElimination(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s, err = ToggleElimination(s, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("expected awaiting completion, got %s", s.Phase)
	}

	s, err = BackToLive(s)
	if err != nil {
		t.Fatalf("back to live: %v", err)
	}
	if s.Phase != PhaseLive {
		t.Fatalf("expected live, got %s", s.Phase)
	}
	// Totals and flags are untouched by backing out of the prompt.
	if !s.Players[1].Eliminated || !s.Players[2].Eliminated {
		t.Fatal("back must not alter elimination flags")
	}
}

func TestComplete(t *testing.T) {
	s := newLiveSession(t, 3)
	var err error
	s, err = ToggleElimination(s, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s, err = ToggleElimination(s, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := Complete(s, WinConditionNone); !errors.Is(err, ErrWinConditionRequired) {
		t.Fatalf("expected ErrWinConditionRequired with advanced stats, got %v", err)
	}

	done, err := Complete(s, WinConditionCombo)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Phase != PhaseCompleted {
		t.Fatalf("expected completed, got %s", done.Phase)
	}
	for _, p := range done.Players {
		if p.Winner != (p.Seat == 1) {
			t.Fatalf("seat %d winner flag wrong: %v", p.Seat, p.Winner)
		}
	}
}

func TestCompleteWithoutAdvancedStatsSkipsWinCondition(t *testing.T) {
	s, err := NewSession("001-A01", "group-1", seatInputs(3), false)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s, err = StartLive(s)
	if err != nil {
		t.Fatalf("start live: %v", err)
	}
	s, err = ToggleElimination(s, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s, err = ToggleElimination(s, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := Complete(s, WinConditionNone); err != nil {
		t.Fatalf("complete without advanced stats: %v", err)
	}
}

func TestCompleteRequiresSurvivor(t *testing.T) {
	s := newLiveSession(t, 3)
	var err error
	for seat := 1; seat < 3; seat++ {
		s, err = ToggleElimination(s, seat)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	// Eliminate the presumptive winner from inside the prompt.
	s, err = ToggleElimination(s, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := Complete(s, WinConditionCombo); !errors.Is(err, ErrNoWinner) {
		t.Fatalf("expected ErrNoWinner, got %v", err)
	}
}

func TestCancelGates(t *testing.T) {
	setup, err := NewSession("001-A01", "group-1", seatInputs(3), false)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := Cancel(setup); err != nil {
		t.Fatalf("cancel from setup: %v", err)
	}

	live := newLiveSession(t, 3)
	cancelled, err := Cancel(live)
	if err != nil {
		t.Fatalf("cancel from live: %v", err)
	}
	if cancelled.Phase != PhaseCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Phase)
	}

	if _, err := Cancel(cancelled); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
}

func TestEvaluatePhaseOnResume(t *testing.T) {
	s := newLiveSession(t, 3)
	// Simulate a snapshot written before the evaluator ran.
	s.Players[0].Eliminated = true
	s.Players[1].Eliminated = true
	s = EvaluatePhase(s)
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("expected awaiting completion after resume, got %s", s.Phase)
	}
}

func TestEndToEndCommanderDamageGame(t *testing.T) {
	s := newLiveSession(t, 3)

	var err error
	for i := 0; i < 3; i++ {
		s, err = AdjustCommanderDamage(s, 1, 0, 7, SourcePrimary)
		if err != nil {
			t.Fatalf("adjust commander damage: %v", err)
		}
	}
	if got := s.Players[1].Life; got != 19 {
		t.Fatalf("expected seat 1 life 19, got %d", got)
	}
	if !s.Players[1].Eliminated {
		t.Fatal("seat 1 should be eliminated at 21 commander damage")
	}
	if got := ActiveCount(s); got != 2 {
		t.Fatalf("expected 2 active players, got %d", got)
	}
	if s.Phase != PhaseLive {
		t.Fatalf("expected live with two survivors, got %s", s.Phase)
	}

	s, err = AdjustLife(s, 2, -40)
	if err != nil {
		t.Fatalf("adjust life: %v", err)
	}
	if s.Phase != PhaseAwaitingCompletion {
		t.Fatalf("expected awaiting completion, got %s", s.Phase)
	}
	winner, ok := Winner(s)
	if !ok || winner.Seat != 0 {
		t.Fatalf("expected seat 0 as winner, got %+v ok=%v", winner, ok)
	}
}
