package bot

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Player lets the engine take a seat in a match.
type Player struct {
	logger     *slog.Logger
	engine     *Engine
	mark       entity.Mark
	difficulty Difficulty
}

func NewPlayer(logger *slog.Logger, engine *Engine, mark entity.Mark, difficulty Difficulty) *Player {
	return &Player{
		logger:     logger.With("component", "bot", "mark", mark, "difficulty", difficulty),
		engine:     engine,
		mark:       mark,
		difficulty: difficulty,
	}
}

func (that *Player) GetMove(game *entity.Game) (entity.Position, error) {
	if game.Turn != that.mark {
		return entity.Position{}, apperror.ErrNotYourTurn
	}

	start := time.Now()

	pos, err := that.engine.FindMove(game, that.difficulty)
	if err != nil {
		return entity.Position{}, fmt.Errorf("bot failed to find move: %w", err)
	}

	that.logger.Debug("bot chose move", "row", pos.Row, "col", pos.Col, "elapsed", time.Since(start))

	return pos, nil
}

func (that *Player) GetPlayerMark() entity.Mark {
	return that.mark
}

func (that *Player) GetDisplayName() string {
	return fmt.Sprintf("Bot (%s)", that.difficulty)
}
