package storage

import (
	"context"
	"errors"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Row result values for the game sheet. Empty means the game is still in
// progress (a placeholder row).
const (
	ResultWin  = "Win"
	ResultLoss = "Loss"
)

// SnapshotStore persists the single live-session snapshot. Only one live
// session may exist on a device; the slot is the lock.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, session domain.Session) error
	LoadSnapshot(ctx context.Context) (domain.Session, error)
	ClearSnapshot(ctx context.Context) error
}

// TrackingPlayer is one seat's entry in a session tracking record.
type TrackingPlayer struct {
	Name      string `json:"name"`
	Commander string `json:"commander"`
	RowNumber int64  `json:"rowNumber"`
}

// TrackingRecord cross-references a live session to the sheet rows written
// for it, keyed by {groupID}_{gameID}. It exists solely so an abandoned
// session's placeholder rows can be cleaned up; resume never reads it.
type TrackingRecord struct {
	GroupID   string           `json:"groupId"`
	GameID    string           `json:"gameId"`
	Players   []TrackingPlayer `json:"players"`
	CreatedAt time.Time        `json:"createdAt"`
}

// TrackingStore persists session tracking records.
type TrackingStore interface {
	PutTracking(ctx context.Context, record TrackingRecord) error
	GetTracking(ctx context.Context, groupID, gameID string) (TrackingRecord, error)
	DeleteTracking(ctx context.Context, groupID, gameID string) error
}

// GameRow is one player's line in the sheet of record. RowNumber is
// assigned on append and identifies the row for later updates.
type GameRow struct {
	RowNumber     int64
	GroupID       string
	Date          time.Time
	GameID        string
	Player        string
	Commander     string
	ColorIdentity string
	TurnOrder     int
	Result        string
	LastTurn      int
	WinCondition  string
	Bracket       string
}

// GameRef pairs a game identifier with its date, for session-letter and
// game-number derivation.
type GameRef struct {
	ID   string
	Date time.Time
}

// GameRowStore persists game rows. Append writes placeholder or completed
// rows and returns their assigned row numbers in input order.
type GameRowStore interface {
	AppendRows(ctx context.Context, rows []GameRow) ([]int64, error)
	UpdateResult(ctx context.Context, rowNumber int64, result string, lastTurn int, winCondition string) error
	DeleteGame(ctx context.Context, groupID, gameID string) error
	ListGames(ctx context.Context, groupID string) ([]GameRef, error)
}

// TelemetryEvent is an operational audit record. EventID is assigned by
// the emitter before the event reaches a store.
type TelemetryEvent struct {
	EventID    string
	Timestamp  time.Time
	EventName  string
	GroupID    string
	GameID     string
	Attributes map[string]string
}

// TelemetryStore records operational events for later inspection.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
}
