package entity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

// Position addresses a cell by zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type line [3]Position

// winLines lists every row, column and diagonal of the board.
var winLines = []line{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is the 3x3 grid in row-major order.
type Board [BoardSize][BoardSize]Cell

// EmptyCells returns the free positions in row-major order.
func (that *Board) EmptyCells() []Position {
	cells := make([]Position, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col].IsEmpty() {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}

// CountMarks returns how many cells each mark occupies.
func (that *Board) CountMarks() (x, o int) {
	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case Occupied(PlayerX):
				x++
			case Occupied(PlayerO):
				o++
			}
		}
	}

	return x, o
}

func (that *Board) String() string {
	var sb strings.Builder

	for row := range BoardSize {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		for col := range BoardSize {
			if col > 0 {
				sb.WriteString("|")
			}

			mark := " "
			if m, ok := that[row][col].Mark(); ok {
				mark = string(m)
			}

			sb.WriteString(" " + mark + " ")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Game represents the state of a single game: board, whose turn it is and the status.
type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Turn   Mark   `json:"current_turn"`
	Status Status `json:"status"`
}

// NewGame creates a game with a fresh random identifier.
func NewGame() *Game {
	return NewGameWithID(uuid.NewString())
}

// NewGameWithID creates an empty game with X to move.
func NewGameWithID(id string) *Game {
	return &Game{
		ID:     id,
		Turn:   PlayerX,
		Status: StatusInProgress,
	}
}

// Clone returns an independent copy of the game.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}

// SameState reports whether both games have the same board, turn and status.
func (that *Game) SameState(other *Game) bool {
	return that.Board == other.Board && that.Turn == other.Turn && that.Status == other.Status
}

// NewHistory starts an empty move log for this game.
func (that *Game) NewHistory() *History {
	return NewHistory(that.ID)
}

// MakeMove places the current player's mark at (row, col) and advances the game.
// A rejected move leaves the game untouched.
func (that *Game) MakeMove(row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !onBoard(row) || !onBoard(col) {
		return &apperror.PositionError{Err: apperror.ErrInvalidPosition, Row: row, Col: col}
	}

	if !that.Board[row][col].IsEmpty() {
		return &apperror.PositionError{Err: apperror.ErrCellOccupied, Row: row, Col: col}
	}

	that.Board[row][col] = Occupied(that.Turn)
	that.updateStatus(Position{Row: row, Col: col})

	if !that.IsFinished() {
		that.Turn = that.Turn.Opponent()
	}

	return nil
}

// updateStatus checks only the lines passing through the last played cell.
func (that *Game) updateStatus(last Position) {
	mark := Occupied(that.Turn)

	for _, l := range winLines {
		if !l.contains(last) {
			continue
		}

		if that.Board.at(l[0]) == mark && that.Board.at(l[1]) == mark && that.Board.at(l[2]) == mark {
			that.Status = StatusWon(that.Turn)
			return
		}
	}

	if that.Board.IsFull() {
		that.Status = StatusDraw
	}
}

func (that *Board) at(pos Position) Cell {
	return that[pos.Row][pos.Col]
}

func (that line) contains(pos Position) bool {
	return that[0] == pos || that[1] == pos || that[2] == pos
}

func onBoard(index int) bool {
	return index >= 0 && index < BoardSize
}
