package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// sqliteHistory archives move logs in the tables created by storage.NewSQLite.
type sqliteHistory struct {
	conn *sql.DB
}

func NewSQLiteHistoryRepository(conn *sql.DB) HistoryRepository {
	return &sqliteHistory{
		conn: conn,
	}
}

func (that *sqliteHistory) CreateOrUpdate(ctx context.Context, history *entity.History) (err error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var endedAt, finalStatus sql.NullString
	if history.EndedAt != nil {
		endedAt = sql.NullString{String: formatTime(*history.EndedAt), Valid: true}
	}

	if history.FinalStatus != nil {
		statusJSON, marshalErr := json.Marshal(history.FinalStatus)
		if marshalErr != nil {
			return fmt.Errorf("could not marshal final status: %w", marshalErr)
		}
		finalStatus = sql.NullString{String: string(statusJSON), Valid: true}
	}

	query := `INSERT INTO histories (game_id, started_at, ended_at, final_status) VALUES (?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET started_at = excluded.started_at,
			ended_at = excluded.ended_at, final_status = excluded.final_status`

	if _, err = tx.ExecContext(ctx, query, history.GameID, formatTime(history.StartedAt), endedAt, finalStatus); err != nil {
		return fmt.Errorf("can't save history: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM history_moves WHERE game_id = ?`, history.GameID); err != nil {
		return fmt.Errorf("can't clear moves: %w", err)
	}

	insert := `INSERT INTO history_moves (game_id, seq, player, row_index, col_index, played_at) VALUES (?, ?, ?, ?, ?, ?)`
	for seq, move := range history.Moves {
		if _, err = tx.ExecContext(ctx, insert, history.GameID, seq, string(move.Player), move.Row, move.Col, formatTime(move.Timestamp)); err != nil {
			return fmt.Errorf("can't save move %d: %w", seq, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit history: %w", err)
	}

	return nil
}

func (that *sqliteHistory) GetByGameID(ctx context.Context, gameID string) (*entity.History, error) {
	query := `SELECT started_at, ended_at, final_status FROM histories WHERE game_id = ?`

	var startedAt string
	var endedAt, finalStatus sql.NullString

	err := that.conn.QueryRowContext(ctx, query, gameID).Scan(&startedAt, &endedAt, &finalStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrHistoryNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find history: %w", err)
	}

	history := &entity.History{GameID: gameID, Moves: []entity.Move{}}

	if history.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}

	if endedAt.Valid {
		ended, parseErr := parseTime(endedAt.String)
		if parseErr != nil {
			return nil, parseErr
		}
		history.EndedAt = &ended
	}

	if finalStatus.Valid {
		var status entity.Status
		if err = json.Unmarshal([]byte(finalStatus.String), &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal final status: %w", err)
		}
		history.FinalStatus = &status
	}

	if history.Moves, err = that.moves(ctx, gameID); err != nil {
		return nil, err
	}

	return history, nil
}

func (that *sqliteHistory) moves(ctx context.Context, gameID string) ([]entity.Move, error) {
	query := `SELECT player, row_index, col_index, played_at FROM history_moves WHERE game_id = ? ORDER BY seq`

	rows, err := that.conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("can't query moves: %w", err)
	}
	defer rows.Close()

	moves := []entity.Move{}
	for rows.Next() {
		var move entity.Move
		var player, playedAt string

		if err = rows.Scan(&player, &move.Row, &move.Col, &playedAt); err != nil {
			return nil, fmt.Errorf("can't scan move: %w", err)
		}

		move.Player = entity.Mark(player)
		if move.Timestamp, err = parseTime(playedAt); err != nil {
			return nil, err
		}

		moves = append(moves, move)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read moves: %w", err)
	}

	return moves, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("can't parse time %q: %w", s, err)
	}

	return t, nil
}
