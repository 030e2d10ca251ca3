package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

var timeNow = time.Now

// Move is a single recorded turn.
type Move struct {
	Player    Mark      `json:"player"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Timestamp time.Time `json:"timestamp"`
}

// History is the append-only move log of one game.
type History struct {
	GameID      string     `json:"game_id"`
	Moves       []Move     `json:"moves"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	FinalStatus *Status    `json:"final_status,omitempty"`
}

func NewHistory(gameID string) *History {
	return &History{
		GameID:    gameID,
		Moves:     []Move{},
		StartedAt: timeNow().UTC(),
	}
}

// AddMove records a move without checking it; the caller has already applied it to the game.
func (that *History) AddMove(player Mark, row, col int) {
	that.Moves = append(that.Moves, Move{
		Player:    player,
		Row:       row,
		Col:       col,
		Timestamp: timeNow().UTC(),
	})
}

// Finish stamps the end time and the final status.
func (that *History) Finish(status Status) {
	endedAt := timeNow().UTC()

	that.EndedAt = &endedAt
	that.FinalStatus = &status
}

func (that *History) IsFinished() bool {
	return that.EndedAt != nil && that.FinalStatus != nil
}

// ReconstructGame replays the log on a fresh game with the same id.
// On failure the returned game holds the state just before the rejected move.
func (that *History) ReconstructGame() (*Game, error) {
	game := NewGameWithID(that.GameID)

	for i, move := range that.Moves {
		if move.Player != game.Turn {
			return game, fmt.Errorf("move %d by %q: %w", i+1, move.Player, apperror.ErrNotYourTurn)
		}

		if err := game.MakeMove(move.Row, move.Col); err != nil {
			return game, fmt.Errorf("move %d: %w", i+1, err)
		}
	}

	return game, nil
}
