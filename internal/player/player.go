package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var (
	errFieldCount = errors.New("please enter exactly two numbers separated by a space")
	errNotNumbers = errors.New("invalid input, please enter numbers")
)

// Player is anything that can take a seat in a match: a human at the console or a bot.
type Player interface {
	GetMove(game *entity.Game) (entity.Position, error)
	GetPlayerMark() entity.Mark
	GetDisplayName() string
}

// Human reads moves as "row col" lines from an input stream.
type Human struct {
	mark    entity.Mark
	name    string
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHuman(mark entity.Mark, name string, in io.Reader, out io.Writer) *Human {
	return NewHumanFromScanner(mark, name, bufio.NewScanner(in), out)
}

// NewHumanFromScanner lets two humans at one console share a single input scanner.
func NewHumanFromScanner(mark entity.Mark, name string, scanner *bufio.Scanner, out io.Writer) *Human {
	return &Human{
		mark:    mark,
		name:    name,
		scanner: scanner,
		out:     out,
	}
}

// GetMove prompts until a well-formed on-board position is entered.
// Occupancy is left to the rules engine.
func (that *Human) GetMove(_ *entity.Game) (entity.Position, error) {
	for {
		fmt.Fprint(that.out, "Enter your move as 'row col' (0-2): ")

		if !that.scanner.Scan() {
			if err := that.scanner.Err(); err != nil {
				return entity.Position{}, fmt.Errorf("failed to read move: %w", err)
			}
			return entity.Position{}, apperror.ErrInputClosed
		}

		pos, err := parsePosition(that.scanner.Text())
		if err != nil {
			fmt.Fprintln(that.out, err)
			continue
		}

		return pos, nil
	}
}

func (that *Human) GetPlayerMark() entity.Mark {
	return that.mark
}

func (that *Human) GetDisplayName() string {
	return that.name + " (Human)"
}

func parsePosition(line string) (entity.Position, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return entity.Position{}, errFieldCount
	}

	row, errRow := strconv.Atoi(fields[0])
	col, errCol := strconv.Atoi(fields[1])
	if errRow != nil || errCol != nil {
		return entity.Position{}, errNotNumbers
	}

	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return entity.Position{}, &apperror.PositionError{Err: apperror.ErrInvalidPosition, Row: row, Col: col}
	}

	return entity.Position{Row: row, Col: col}, nil
}
