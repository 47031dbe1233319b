package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase describes where a session sits in its lifecycle.
type Phase int

const (
	// PhaseUnspecified represents an invalid phase value.
	PhaseUnspecified Phase = iota
	// PhaseSetup covers player and commander entry before live tracking.
	PhaseSetup
	// PhaseLive is the steady tracking state.
	PhaseLive
	// PhaseAwaitingCompletion surfaces the end-of-game prompt once a single
	// non-eliminated player remains.
	PhaseAwaitingCompletion
	// PhaseCompleted is terminal; results have been written to the sheet.
	PhaseCompleted
	// PhaseCancelled is terminal; placeholder rows have been removed.
	PhaseCancelled
)

// String returns the lowercase phase label used in snapshots and telemetry.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseLive:
		return "live"
	case PhaseAwaitingCompletion:
		return "awaiting_completion"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// StartingLifeLadder is the ordered set of selectable starting life totals.
// The settings control only moves one step at a time.
var StartingLifeLadder = []int{20, 25, 30, 40, 50, 60}

// DefaultStartingLife is the Commander default.
const DefaultStartingLife = 40

const (
	// MinPlayers and MaxPlayers bound supported pod sizes.
	MinPlayers = 3
	MaxPlayers = 5
)

var (
	// ErrPlayerCount indicates an unsupported number of players.
	ErrPlayerCount = fmt.Errorf("player count must be between %d and %d", MinPlayers, MaxPlayers)
	// ErrSeatOutOfRange indicates a seat index outside the session roster.
	ErrSeatOutOfRange = errors.New("seat index out of range")
	// ErrEmptyPlayerName indicates a missing player name.
	ErrEmptyPlayerName = errors.New("player name is required")
	// ErrEmptyCommander indicates a missing commander name.
	ErrEmptyCommander = errors.New("commander name is required")
)

// Session is the root aggregate for one live game. Seat order is fixed at
// creation; SeatRotationOffset is a display transform and never reorders
// the Players slice.
type Session struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	Phase   Phase  `json:"phase"`

	// GameDate is the sheet date the game id was derived from. It can lag
	// the wall clock: play past midnight still belongs to the prior day.
	GameDate time.Time `json:"gameDate"`

	Players            []PlayerState `json:"players"`
	StartingLife       int           `json:"startingLife"`
	TurnNumber         int           `json:"turnNumber"`
	TurnTrackingActive bool          `json:"turnTrackingActive"`
	SeatRotationOffset int           `json:"seatRotationOffset"`

	// AdvancedStats mirrors the playgroup flag at session creation and is
	// immutable afterwards; it gates turn tracking and win-condition entry.
	AdvancedStats bool `json:"advancedStatsEnabled"`
}

// SeatInput describes one seat for session creation.
type SeatInput struct {
	Name          string
	Commander     string
	ColorIdentity []string
	Bracket       string
}

// NewSession builds a Setup-phase session with every seat at the starting
// life total and empty damage maps.
func NewSession(id, groupID string, seats []SeatInput, advancedStats bool) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, errors.New("session id is required")
	}
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return Session{}, ErrPlayerCount
	}

	players := make([]PlayerState, len(seats))
	for i, seat := range seats {
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			return Session{}, ErrEmptyPlayerName
		}
		commander := strings.TrimSpace(seat.Commander)
		if commander == "" {
			return Session{}, ErrEmptyCommander
		}
		players[i] = PlayerState{
			Seat:            i,
			Name:            name,
			Commander:       commander,
			ColorIdentity:   append([]string(nil), seat.ColorIdentity...),
			Bracket:         seat.Bracket,
			Life:            DefaultStartingLife,
			CommanderDamage: map[int]DamageEntry{},
		}
	}

	return Session{
		ID:            id,
		GroupID:       groupID,
		Phase:         PhaseSetup,
		Players:       players,
		StartingLife:  DefaultStartingLife,
		AdvancedStats: advancedStats,
	}, nil
}

// ActiveCount returns the number of non-eliminated players.
func ActiveCount(s Session) int {
	count := 0
	for _, p := range s.Players {
		if !p.Eliminated {
			count++
		}
	}
	return count
}

// Winner returns the sole non-eliminated player. ok is false when zero or
// more than one player remains active.
func Winner(s Session) (PlayerState, bool) {
	var winner PlayerState
	found := false
	for _, p := range s.Players {
		if p.Eliminated {
			continue
		}
		if found {
			return PlayerState{}, false
		}
		winner = p
		found = true
	}
	return winner, found
}

func (s Session) clone() Session {
	cloned := s
	cloned.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		cloned.Players[i] = p.clone()
	}
	return cloned
}

func (s Session) validSeat(seat int) bool {
	return seat >= 0 && seat < len(s.Players)
}
