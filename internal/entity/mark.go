package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is a player's token. X always moves first.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) Valid() bool {
	return that == PlayerX || that == PlayerO
}

// ParseMark accepts "x"/"o" in any case.
func ParseMark(s string) (Mark, error) {
	mark := Mark(strings.ToUpper(strings.TrimSpace(s)))
	if !mark.Valid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}

	return mark, nil
}

// Cell is either empty or occupied by a mark.
type Cell string

const EmptyCell Cell = ""

func Occupied(mark Mark) Cell {
	return Cell(mark)
}

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Mark returns the occupying mark, if any.
func (that Cell) Mark() (Mark, bool) {
	if that.IsEmpty() {
		return "", false
	}
	return Mark(that), true
}

type StatusKind string

const (
	KindInProgress StatusKind = "in_progress"
	KindWon        StatusKind = "won"
	KindDraw       StatusKind = "draw"
)

// Status is InProgress, Won(winner) or Draw. Winner is set only for KindWon.
type Status struct {
	Kind   StatusKind `json:"kind"`
	Winner Mark       `json:"winner,omitempty"`
}

var (
	StatusInProgress = Status{Kind: KindInProgress}
	StatusDraw       = Status{Kind: KindDraw}
)

func StatusWon(winner Mark) Status {
	return Status{Kind: KindWon, Winner: winner}
}

// UnmarshalJSON reads an empty kind as in progress.
func (that *Status) UnmarshalJSON(data []byte) error {
	type plain Status

	var status plain
	if err := json.Unmarshal(data, &status); err != nil {
		return err
	}

	if status.Kind == "" {
		status.Kind = KindInProgress
	}

	*that = Status(status)

	return nil
}

func (that Status) IsTerminal() bool {
	return that.Kind == KindWon || that.Kind == KindDraw
}

func (that Status) String() string {
	if that.Kind == KindWon {
		return fmt.Sprintf("%s(%s)", that.Kind, that.Winner)
	}
	return string(that.Kind)
}
