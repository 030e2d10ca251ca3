package bot

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	winScore  = 10
	lossScore = -10
)

// Engine picks moves for the side to move. It never modifies the game it is given.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine uses rng for easy-tier moves. The engine serializes access to it.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// NewSeededEngine is NewEngine with a PCG source fixed by seed.
func NewSeededEngine(seed uint64) *Engine {
	return NewEngine(rand.New(rand.NewPCG(seed, seed))) //nolint: gosec // move choice, not security
}

// FindMove returns a move for game.Turn at the given difficulty.
func (that *Engine) FindMove(game *entity.Game, difficulty Difficulty) (entity.Position, error) {
	empty := game.Board.EmptyCells()
	if len(empty) == 0 {
		return entity.Position{}, apperror.ErrNoValidMoves
	}

	if game.IsFinished() {
		return entity.Position{}, apperror.ErrGameFinished
	}

	if difficulty == Easy {
		return that.randomMove(empty), nil
	}

	return FindBestMove(game, difficulty.Depth())
}

func (that *Engine) randomMove(empty []entity.Position) entity.Position {
	that.mu.Lock()
	defer that.mu.Unlock()

	return empty[that.rng.IntN(len(empty))]
}

// FindBestMove runs minimax to maxDepth for game.Turn. Ties go to the first
// best cell in row-major order.
func FindBestMove(game *entity.Game, maxDepth int) (entity.Position, error) {
	s := search{me: game.Turn, maxDepth: maxDepth}

	bestScore := math.MinInt
	var best *entity.Position

	for _, pos := range game.Board.EmptyCells() {
		child := *game
		if err := child.MakeMove(pos.Row, pos.Col); err != nil {
			return entity.Position{}, err
		}

		score := s.minimax(&child, 0, false)
		if score > bestScore {
			bestScore = score
			best = &pos
		}
	}

	if best == nil {
		return entity.Position{}, apperror.ErrNoValidMoves
	}

	return *best, nil
}

type search struct {
	me       entity.Mark
	maxDepth int
}

// evaluate scores a finished game from the searching side's point of view.
func (that search) evaluate(game *entity.Game) int {
	if game.Status.Kind != entity.KindWon {
		return 0
	}

	if game.Status.Winner == that.me {
		return winScore
	}

	return lossScore
}

func (that search) minimax(game *entity.Game, depth int, maximizing bool) int {
	if game.IsFinished() || depth == that.maxDepth {
		// shallower wins score higher, deeper losses score less negative
		return that.evaluate(game) - depth
	}

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for _, pos := range game.Board.EmptyCells() {
		child := *game
		if err := child.MakeMove(pos.Row, pos.Col); err != nil {
			continue
		}

		score := that.minimax(&child, depth+1, !maximizing)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
