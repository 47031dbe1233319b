package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
)

// CreateSession derives the next game id for the group and opens a fresh
// Setup-phase session.
func (s *MatchService) CreateSession(ctx context.Context, groupID string, seats []domain.SeatInput, advancedStats bool) (domain.Session, error) {
	if s.active {
		return domain.Session{}, ErrSessionActive
	}

	gameDate := domain.DefaultGameDate(s.clock())
	gameID, err := s.nextGameID(ctx, groupID, gameDate)
	if err != nil {
		return domain.Session{}, fmt.Errorf("derive game id: %w", err)
	}

	session, err := domain.NewSession(gameID, groupID, seats, advancedStats)
	if err != nil {
		return domain.Session{}, err
	}
	session.GameDate = gameDate

	s.session = session
	s.active = true
	return session, nil
}

// StartLive transitions the session from Setup into Live. Placeholder rows
// and the tracking record land on the remote store before any mutation is
// accepted, so a crash right after start still leaves a cleanable trace.
// On any remote failure the session stays in Setup and the error
// propagates.
func (s *MatchService) StartLive(ctx context.Context) error {
	if !s.active {
		return ErrNoSession
	}

	ctx, span := s.tracer.Start(ctx, "session.start_live")
	defer span.End()

	next, err := domain.StartLive(s.session)
	if err != nil {
		return err
	}

	rows := placeholderRows(next)
	numbers, err := s.stores.Rows.AppendRows(ctx, rows)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("write placeholder rows: %w", err)
	}
	for i := range next.Players {
		next.Players[i].RowNumber = numbers[i]
	}

	if err := s.stores.Tracking.PutTracking(ctx, trackingRecord(next, s.clock())); err != nil {
		span.RecordError(err)
		// Best-effort rollback of the rows just written; the tracking
		// record exists precisely so orphans like these stay deletable.
		if cleanupErr := s.stores.Rows.DeleteGame(ctx, next.GroupID, next.ID); cleanupErr != nil {
			s.logger.Printf("rollback placeholder rows: %v", cleanupErr)
		}
		return fmt.Errorf("write tracking record: %w", err)
	}

	s.session = next
	s.saveSnapshot(ctx)

	if err := s.screen.Acquire(ctx); err != nil {
		s.logger.Printf("acquire screen wake: %v", err)
	}
	s.emit(ctx, "session.started", map[string]string{"players": fmt.Sprint(len(next.Players))})
	return nil
}

// PendingSnapshot loads the snapshot slot for the resume prompt. It
// returns false once the prompt has been offered this load, or when the
// slot is empty. A malformed snapshot is logged, discarded, and treated as
// absent so the user lands in a fresh Setup instead of a dead end.
func (s *MatchService) PendingSnapshot(ctx context.Context) (domain.Session, bool) {
	if s.promptShown || s.active {
		return domain.Session{}, false
	}
	s.promptShown = true

	snapshot, err := s.stores.Snapshot.LoadSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("discarding unreadable snapshot: %v", err)
			if clearErr := s.stores.Snapshot.ClearSnapshot(ctx); clearErr != nil {
				s.logger.Printf("clear unreadable snapshot: %v", clearErr)
			}
		}
		return domain.Session{}, false
	}

	s.pending = &snapshot
	return snapshot, true
}

// Resume re-enters Live with the persisted state. The phase is re-derived
// so a snapshot taken at one active player lands directly back in the
// completion prompt.
func (s *MatchService) Resume(ctx context.Context) (domain.Session, error) {
	if s.active {
		return domain.Session{}, ErrSessionActive
	}
	if s.pending == nil {
		return domain.Session{}, ErrNoSnapshot
	}

	session := domain.EvaluatePhase(*s.pending)
	s.session = session
	s.active = true
	s.pending = nil

	if err := s.screen.Acquire(ctx); err != nil {
		s.logger.Printf("acquire screen wake: %v", err)
	}
	s.emit(ctx, "session.resumed", map[string]string{"phase": session.Phase.String()})
	return session, nil
}

// Discard abandons the pending snapshot: remote placeholder rows and the
// tracking record are deleted, then the local slot is cleared. Remote
// failures propagate and leave the snapshot resumable.
func (s *MatchService) Discard(ctx context.Context) error {
	if s.pending == nil {
		return ErrNoSnapshot
	}

	ctx, span := s.tracer.Start(ctx, "session.discard")
	defer span.End()

	pending := *s.pending
	if err := s.stores.Rows.DeleteGame(ctx, pending.GroupID, pending.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete placeholder rows: %w", err)
	}
	if err := s.stores.Tracking.DeleteTracking(ctx, pending.GroupID, pending.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete tracking record: %w", err)
	}
	if err := s.stores.Snapshot.ClearSnapshot(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("clear snapshot: %w", err)
	}

	s.pending = nil
	if err := s.emitter.EmitSession(ctx, "session.discarded", pending.GroupID, pending.ID, nil); err != nil {
		s.logger.Printf("emit session.discarded: %v", err)
	}
	return nil
}

// Complete confirms the game from the completion prompt: every player's
// placeholder row is updated with result, last turn, and (for the winner)
// the win condition; the tracking record and snapshot are then removed.
// Any remote failure leaves the session exactly as before the attempt.
func (s *MatchService) Complete(ctx context.Context, condition domain.WinCondition) error {
	if !s.active {
		return ErrNoSession
	}

	ctx, span := s.tracer.Start(ctx, "session.complete")
	defer span.End()

	next, err := domain.Complete(s.session, condition)
	if err != nil {
		return err
	}

	lastTurn := 0
	if next.TurnTrackingActive {
		lastTurn = next.TurnNumber
	}
	for _, p := range next.Players {
		result := storage.ResultLoss
		rowCondition := ""
		if p.Winner {
			result = storage.ResultWin
			rowCondition = string(condition)
		}
		if err := s.stores.Rows.UpdateResult(ctx, p.RowNumber, result, lastTurn, rowCondition); err != nil {
			span.RecordError(err)
			return fmt.Errorf("update row for %s: %w", p.Name, err)
		}
	}

	if err := s.stores.Tracking.DeleteTracking(ctx, next.GroupID, next.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete tracking record: %w", err)
	}
	if err := s.stores.Snapshot.ClearSnapshot(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("clear snapshot: %w", err)
	}

	s.session = next
	s.active = false
	if err := s.screen.Release(ctx); err != nil {
		s.logger.Printf("release screen wake: %v", err)
	}
	winner, _ := domain.Winner(next)
	s.emit(ctx, "session.completed", map[string]string{
		"winner":    winner.Name,
		"condition": string(condition),
	})
	return nil
}

// Cancel abandons a Setup or Live session: placeholder rows are deleted
// outright, along with the tracking record and snapshot. Remote failures
// propagate and leave the session resumable.
func (s *MatchService) Cancel(ctx context.Context) error {
	if !s.active {
		return ErrNoSession
	}

	ctx, span := s.tracer.Start(ctx, "session.cancel")
	defer span.End()

	next, err := domain.Cancel(s.session)
	if err != nil {
		return err
	}

	// A Setup-phase session has written nothing remote yet.
	if s.session.Phase != domain.PhaseSetup {
		if err := s.stores.Rows.DeleteGame(ctx, next.GroupID, next.ID); err != nil {
			span.RecordError(err)
			return fmt.Errorf("delete placeholder rows: %w", err)
		}
		if err := s.stores.Tracking.DeleteTracking(ctx, next.GroupID, next.ID); err != nil {
			span.RecordError(err)
			return fmt.Errorf("delete tracking record: %w", err)
		}
		if err := s.stores.Snapshot.ClearSnapshot(ctx); err != nil {
			span.RecordError(err)
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	s.session = next
	s.active = false
	if err := s.screen.Release(ctx); err != nil {
		s.logger.Printf("release screen wake: %v", err)
	}
	s.emit(ctx, "session.cancelled", nil)
	return nil
}

// CompletedSeat describes one seat of a game submitted without live
// tracking.
type CompletedSeat struct {
	Seat   domain.SeatInput
	Winner bool
}

// SubmitCompleted records a finished game directly, bypassing live
// tracking: rows are appended already carrying their results. lastTurn may
// be zero when turns were not counted.
func (s *MatchService) SubmitCompleted(ctx context.Context, groupID string, seats []CompletedSeat, condition domain.WinCondition, lastTurn int, advancedStats bool) (string, error) {
	if s.active {
		return "", ErrSessionActive
	}
	winners := 0
	for _, seat := range seats {
		if seat.Winner {
			winners++
		}
	}
	if winners != 1 {
		return "", errors.New("exactly one winner is required")
	}
	if advancedStats && condition == domain.WinConditionNone {
		return "", domain.ErrWinConditionRequired
	}
	if condition != domain.WinConditionNone && !domain.ValidWinCondition(condition) {
		return "", fmt.Errorf("unknown win condition %q", condition)
	}

	ctx, span := s.tracer.Start(ctx, "session.submit_completed")
	defer span.End()

	inputs := make([]domain.SeatInput, len(seats))
	for i, seat := range seats {
		inputs[i] = seat.Seat
	}

	gameDate := domain.DefaultGameDate(s.clock())
	gameID, err := s.nextGameID(ctx, groupID, gameDate)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("derive game id: %w", err)
	}
	session, err := domain.NewSession(gameID, groupID, inputs, advancedStats)
	if err != nil {
		return "", err
	}
	session.GameDate = gameDate

	rows := placeholderRows(session)
	for i := range rows {
		rows[i].Result = storage.ResultLoss
		rows[i].LastTurn = lastTurn
		if seats[i].Winner {
			rows[i].Result = storage.ResultWin
			rows[i].WinCondition = string(condition)
		}
	}
	if _, err := s.stores.Rows.AppendRows(ctx, rows); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("append completed rows: %w", err)
	}

	if err := s.emitter.EmitSession(ctx, "session.submitted", groupID, gameID, nil); err != nil {
		s.logger.Printf("emit session.submitted: %v", err)
	}
	return gameID, nil
}

func placeholderRows(session domain.Session) []storage.GameRow {
	rows := make([]storage.GameRow, len(session.Players))
	for i, p := range session.Players {
		rows[i] = storage.GameRow{
			GroupID:       session.GroupID,
			Date:          session.GameDate,
			GameID:        session.ID,
			Player:        p.Name,
			Commander:     p.Commander,
			ColorIdentity: strings.Join(domain.SortColorIdentity(p.ColorIdentity), ","),
			TurnOrder:     p.Seat + 1,
			Bracket:       p.Bracket,
		}
	}
	return rows
}

func trackingRecord(session domain.Session, now time.Time) storage.TrackingRecord {
	players := make([]storage.TrackingPlayer, len(session.Players))
	for i, p := range session.Players {
		players[i] = storage.TrackingPlayer{
			Name:      p.Name,
			Commander: p.Commander,
			RowNumber: p.RowNumber,
		}
	}
	return storage.TrackingRecord{
		GroupID:   session.GroupID,
		GameID:    session.ID,
		Players:   players,
		CreatedAt: now.UTC(),
	}
}
