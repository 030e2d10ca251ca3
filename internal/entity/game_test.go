package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// playMoves applies the moves in order, failing the test on the first rejected one.
func playMoves(t *testing.T, game *Game, moves ...Position) {
	t.Helper()

	for _, move := range moves {
		require.NoError(t, game.MakeMove(move.Row, move.Col))
	}
}

func TestNewGame(t *testing.T) {
	t.Run("Fresh game with generated id", func(t *testing.T) {
		// When: a new game is created
		game := NewGame()

		// Then: it has an id, an empty board, X to move and is in progress
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, Board{}, game.Board)
		assert.Equal(t, PlayerX, game.Turn)
		assert.Equal(t, StatusInProgress, game.Status)
	})

	t.Run("Fresh game with given id", func(t *testing.T) {
		// When: a game is created with a known id
		game := NewGameWithID("123")

		// Then: the game state should match the expected initial state
		expectedGame := &Game{
			ID:     "123",
			Turn:   PlayerX,
			Status: StatusInProgress,
		}

		require.Equal(t, expectedGame, game)
	})
}

func TestGame_MakeMove(t *testing.T) {
	t.Run("Successful move", func(t *testing.T) {
		// Given: a new game
		game := NewGameWithID("123")

		// When: X plays the top-left corner
		err := game.MakeMove(0, 0)
		require.NoError(t, err)

		// Then: the cell is occupied and the turn passes to O
		expectedGame := &Game{
			ID:     "123",
			Turn:   PlayerO,
			Status: StatusInProgress,
		}
		expectedGame.Board[0][0] = Occupied(PlayerX)

		require.Equal(t, expectedGame, game)
	})

	t.Run("Changes exactly one cell for every valid position", func(t *testing.T) {
		// Given: a game with a few moves already played
		base := NewGameWithID("123")
		playMoves(t, base, Position{1, 1}, Position{0, 0})

		for _, pos := range base.Board.EmptyCells() {
			game := base.Clone()

			// When: the current player plays an empty cell
			require.NoError(t, game.MakeMove(pos.Row, pos.Col))

			// Then: only that cell changed, to the mover's mark
			for row := range BoardSize {
				for col := range BoardSize {
					if row == pos.Row && col == pos.Col {
						assert.Equal(t, Occupied(base.Turn), game.Board[row][col])
						continue
					}
					assert.Equal(t, base.Board[row][col], game.Board[row][col])
				}
			}
		}
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where X occupies the centre
		game := NewGameWithID("123")
		playMoves(t, game, Position{1, 1})
		before := *game

		// When: O tries to play the same cell
		err := game.MakeMove(1, 1)

		// Then: ErrCellOccupied is returned with the coordinates
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		var posErr *apperror.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, 1, posErr.Row)
		assert.Equal(t, 1, posErr.Col)

		// Then: the game state remains unchanged
		assert.Equal(t, before, *game)
	})

	t.Run("Error on invalid position", func(t *testing.T) {
		for _, pos := range []Position{{3, 0}, {0, 3}, {-1, 0}, {0, -1}, {20, 20}} {
			// Given: a new game
			game := NewGameWithID("123")

			// When: a move outside the board is made
			err := game.MakeMove(pos.Row, pos.Col)

			// Then: ErrInvalidPosition is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrInvalidPosition)
			assert.Equal(t, NewGameWithID("123"), game)
		}
	})

	t.Run("Error on move after win", func(t *testing.T) {
		// Given: a game X has already won
		game := NewGameWithID("123")
		playMoves(t, game, Position{0, 0}, Position{1, 0}, Position{0, 1}, Position{1, 1}, Position{0, 2})
		before := *game

		// When: another move is attempted
		err := game.MakeMove(2, 2)

		// Then: ErrGameFinished is returned and the board is untouched
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, *game)
	})

	t.Run("Error on move after draw", func(t *testing.T) {
		// Given: a drawn game
		game := NewGameWithID("123")
		game.Status = StatusDraw

		// When: a move is attempted
		err := game.MakeMove(0, 0)

		// Then: ErrGameFinished is returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.True(t, game.Board[0][0].IsEmpty())
	})
}

func TestGame_MakeMove_LoadedWithoutStatus(t *testing.T) {
	t.Run("Missing status", func(t *testing.T) {
		// Given: a stored game without a status field
		var game Game
		require.NoError(t, json.Unmarshal([]byte(`{"id":"123","current_turn":"X"}`), &game))

		// When: X plays
		err := game.MakeMove(1, 1)

		// Then: the move is accepted and the turn passes
		require.NoError(t, err)
		assert.Equal(t, PlayerO, game.Turn)
		assert.False(t, game.IsFinished())
	})

	t.Run("Empty status kind", func(t *testing.T) {
		// Given: a stored game whose status kind is blank
		var game Game
		require.NoError(t, json.Unmarshal([]byte(`{"id":"123","current_turn":"X","status":{"kind":""}}`), &game))

		// Then: it reads as a fresh game in progress
		assert.Equal(t, NewGameWithID("123"), &game)
		require.NoError(t, game.MakeMove(0, 0))
	})
}

func TestGame_WinConditions(t *testing.T) {
	tests := []struct {
		name  string
		moves []Position
	}{
		{
			name:  "Top row",
			moves: []Position{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}},
		},
		{
			name:  "Left column",
			moves: []Position{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}},
		},
		{
			name:  "Main diagonal",
			moves: []Position{{0, 0}, {0, 1}, {1, 1}, {0, 2}, {2, 2}},
		},
		{
			name:  "Anti diagonal",
			moves: []Position{{0, 2}, {0, 0}, {1, 1}, {0, 1}, {2, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a new game
			game := NewGameWithID("123")

			// When: X completes a line
			playMoves(t, game, tt.moves...)

			// Then: X has won and the turn is left with the winner
			assert.Equal(t, StatusWon(PlayerX), game.Status)
			assert.Equal(t, PlayerX, game.Turn)
			assert.True(t, game.IsFinished())
		})
	}

	t.Run("O wins on the middle row", func(t *testing.T) {
		// Given: a new game
		game := NewGameWithID("123")

		// When: O completes the middle row
		playMoves(t, game, Position{0, 0}, Position{1, 0}, Position{0, 1}, Position{1, 1}, Position{2, 2}, Position{1, 2})

		// Then: O has won
		assert.Equal(t, StatusWon(PlayerO), game.Status)
		assert.Equal(t, PlayerO, game.Turn)
	})
}

func TestGame_Draw(t *testing.T) {
	// Given: a new game
	game := NewGameWithID("123")

	// When: the board is filled as X O X / O O X / X X O
	playMoves(t, game,
		Position{0, 0}, Position{0, 1}, Position{0, 2},
		Position{1, 0}, Position{1, 2}, Position{1, 1},
		Position{2, 0}, Position{2, 2}, Position{2, 1},
	)

	// Then: the game is a draw
	assert.Equal(t, StatusDraw, game.Status)
	assert.True(t, game.Board.IsFull())
	assert.Equal(t, "X O X\nO O X\nX X O\n", compact(game.Board))
}

func TestBoard_CountMarks(t *testing.T) {
	// Given: a game after three moves
	game := NewGameWithID("123")
	playMoves(t, game, Position{0, 0}, Position{1, 1}, Position{2, 2})

	// When: counting marks
	x, o := game.Board.CountMarks()

	// Then: X is one ahead
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, o)
	assert.Len(t, game.Board.EmptyCells(), 6)
}

func TestBoard_String(t *testing.T) {
	// Given: a board with two marks
	var board Board
	board[0][0] = Occupied(PlayerX)
	board[1][1] = Occupied(PlayerO)

	// When: rendering it
	text := board.String()

	// Then: it shows the grid
	expected := " X |   |   \n" +
		"---+---+---\n" +
		"   | O |   \n" +
		"---+---+---\n" +
		"   |   |   \n"
	assert.Equal(t, expected, text)
}

func TestParseMark(t *testing.T) {
	mark, err := ParseMark(" o ")
	require.NoError(t, err)
	assert.Equal(t, PlayerO, mark)

	_, err = ParseMark("z")
	assert.ErrorIs(t, err, apperror.ErrInvalidMark)
}

func compact(board Board) string {
	out := ""
	for _, row := range board {
		for col, cell := range row {
			if col > 0 {
				out += " "
			}
			out += string(cell)
		}
		out += "\n"
	}
	return out
}
