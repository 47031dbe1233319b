// Package sqlite provides the SQLite-backed sheet of record: appended game
// rows, their completion updates, and operational telemetry events.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/platform/storage/sqlitemigrate"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// toNullInt maps an optional positive count to a nullable column. Zero
// means "not tracked" and is stored as NULL so the sheet cell reads empty.
func toNullInt(value int) sql.NullInt64 {
	if value <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(value), Valid: true}
}

// Store persists game rows and telemetry in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendRows inserts the given rows in order and returns their assigned
// row numbers. All rows land or none do.
func (s *Store) AppendRows(ctx context.Context, rows []storage.GameRow) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("at least one row is required")
	}
	for i, row := range rows {
		if strings.TrimSpace(row.GroupID) == "" {
			return nil, fmt.Errorf("row %d: group id is required", i)
		}
		if strings.TrimSpace(row.GameID) == "" {
			return nil, fmt.Errorf("row %d: game id is required", i)
		}
		if strings.TrimSpace(row.Player) == "" {
			return nil, fmt.Errorf("row %d: player is required", i)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertSQL = `
INSERT INTO game_rows (group_id, game_date, game_id, player, commander, color_identity, turn_order, result, last_turn, win_condition, bracket)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	numbers := make([]int64, 0, len(rows))
	for _, row := range rows {
		res, err := tx.ExecContext(ctx, insertSQL,
			row.GroupID,
			toMillis(row.Date),
			row.GameID,
			row.Player,
			row.Commander,
			row.ColorIdentity,
			row.TurnOrder,
			row.Result,
			toNullInt(row.LastTurn),
			row.WinCondition,
			row.Bracket,
		)
		if err != nil {
			return nil, fmt.Errorf("insert game row: %w", err)
		}
		number, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("read row number: %w", err)
		}
		numbers = append(numbers, number)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return numbers, nil
}

// UpdateResult fills the result columns of one previously appended row.
func (s *Store) UpdateResult(ctx context.Context, rowNumber int64, result string, lastTurn int, winCondition string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if result != storage.ResultWin && result != storage.ResultLoss {
		return fmt.Errorf("result must be %q or %q", storage.ResultWin, storage.ResultLoss)
	}

	const updateSQL = `
UPDATE game_rows SET result = ?, last_turn = ?, win_condition = ? WHERE row_number = ?`

	res, err := s.sqlDB.ExecContext(ctx, updateSQL, result, toNullInt(lastTurn), winCondition, rowNumber)
	if err != nil {
		return fmt.Errorf("update game row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteGame removes every row belonging to the game. Used when a live
// session is cancelled or a stale one discarded.
func (s *Store) DeleteGame(ctx context.Context, groupID, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(groupID) == "" {
		return fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(gameID) == "" {
		return fmt.Errorf("game id is required")
	}

	const deleteSQL = `DELETE FROM game_rows WHERE group_id = ? AND game_id = ?`
	if _, err := s.sqlDB.ExecContext(ctx, deleteSQL, groupID, gameID); err != nil {
		return fmt.Errorf("delete game rows: %w", err)
	}
	return nil
}

// ListGames returns one entry per distinct game id in the group with its
// date, newest first. Session-letter derivation reads this.
func (s *Store) ListGames(ctx context.Context, groupID string) ([]storage.GameRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(groupID) == "" {
		return nil, fmt.Errorf("group id is required")
	}

	const listSQL = `
SELECT game_id, MIN(game_date) FROM game_rows WHERE group_id = ? GROUP BY game_id ORDER BY MIN(game_date) DESC, game_id DESC`

	queryRows, err := s.sqlDB.QueryContext(ctx, listSQL, groupID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer queryRows.Close()

	var refs []storage.GameRef
	for queryRows.Next() {
		var id string
		var dateMillis int64
		if err := queryRows.Scan(&id, &dateMillis); err != nil {
			return nil, fmt.Errorf("scan game ref: %w", err)
		}
		refs = append(refs, storage.GameRef{ID: id, Date: fromMillis(dateMillis)})
	}
	if err := queryRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game refs: %w", err)
	}
	return refs, nil
}

// GetRow fetches one row by number, mainly for completion verification.
func (s *Store) GetRow(ctx context.Context, rowNumber int64) (storage.GameRow, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRow{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRow{}, fmt.Errorf("storage is not configured")
	}

	const getSQL = `
SELECT row_number, group_id, game_date, game_id, player, commander, color_identity, turn_order, result, last_turn, win_condition, bracket
FROM game_rows WHERE row_number = ?`

	var row storage.GameRow
	var dateMillis int64
	var lastTurn sql.NullInt64
	err := s.sqlDB.QueryRowContext(ctx, getSQL, rowNumber).Scan(
		&row.RowNumber,
		&row.GroupID,
		&dateMillis,
		&row.GameID,
		&row.Player,
		&row.Commander,
		&row.ColorIdentity,
		&row.TurnOrder,
		&row.Result,
		&lastTurn,
		&row.WinCondition,
		&row.Bracket,
	)
	if err == sql.ErrNoRows {
		return storage.GameRow{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.GameRow{}, fmt.Errorf("get game row: %w", err)
	}
	row.Date = fromMillis(dateMillis)
	if lastTurn.Valid {
		row.LastTurn = int(lastTurn.Int64)
	}
	return row, nil
}

// AppendTelemetryEvent records an operational audit event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, event storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(event.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	attrs := []byte("{}")
	if len(event.Attributes) > 0 {
		payload, err := json.Marshal(event.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		attrs = payload
	}

	const insertSQL = `
INSERT INTO telemetry_events (event_id, timestamp, event_name, group_id, game_id, attributes_json)
VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.sqlDB.ExecContext(ctx, insertSQL,
		event.EventID,
		toMillis(event.Timestamp),
		event.EventName,
		event.GroupID,
		event.GameID,
		string(attrs),
	); err != nil {
		return fmt.Errorf("insert telemetry event: %w", err)
	}
	return nil
}
