package bot

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Difficulty selects how far ahead the bot looks.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	difficulty := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !difficulty.Valid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, s)
	}

	return difficulty, nil
}

func (that Difficulty) Valid() bool {
	switch that {
	case Easy, Medium, Hard:
		return true
	default:
		return false
	}
}

// Depth is the search depth limit. Hard covers the whole game.
func (that Difficulty) Depth() int {
	switch that {
	case Easy:
		return 1
	case Medium:
		return 3
	default:
		return 9
	}
}
