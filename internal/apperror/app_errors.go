package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidPosition = errors.New("position is out of bounds")
	ErrNoValidMoves    = errors.New("no valid moves available")

	ErrGameNotFound      = errors.New("game not found")
	ErrHistoryNotFound   = errors.New("history not found")
	ErrHistoryMismatch   = errors.New("history does not match game state")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidMark       = errors.New("invalid player mark")
	ErrInputClosed       = errors.New("input closed")
)

// PositionError carries the coordinates of a rejected move.
// Err is either ErrCellOccupied or ErrInvalidPosition.
type PositionError struct {
	Err error
	Row int
	Col int
}

func (that *PositionError) Error() string {
	return fmt.Sprintf("%s: (%d, %d)", that.Err, that.Row, that.Col)
}

func (that *PositionError) Unwrap() error {
	return that.Err
}
