package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/bot"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	List(ctx context.Context) ([]*entity.Game, error)
}

type historyRepo interface {
	CreateOrUpdate(ctx context.Context, history *entity.History) error
	GetByGameID(ctx context.Context, gameID string) (*entity.History, error)
}

type moveFinder interface {
	FindMove(game *entity.Game, difficulty bot.Difficulty) (entity.Position, error)
}

// GameManager drives games on behalf of remote clients. Every mutation of a
// game happens under that game's lock, so one game has a single writer at a time.
type GameManager struct {
	logger *slog.Logger

	gameRepo    gameRepo
	historyRepo historyRepo
	bot         moveFinder

	locks *gameLocks
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, historyRepo historyRepo, bot moveFinder) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:    gameRepo,
		historyRepo: historyRepo,
		bot:         bot,

		locks: newGameLocks(),
	}
}

// CreateGame starts a new game together with its empty history.
func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame()

	if err := that.historyRepo.CreateOrUpdate(ctx, game.NewHistory()); err != nil {
		return nil, fmt.Errorf("failed to create history: %w", err)
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]*entity.Game, error) {
	games, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func (that *GameManager) GetHistory(ctx context.Context, gameID string) (*entity.History, error) {
	history, err := that.historyRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return history, nil
}

// MakeTurn plays (row, col) for mark, which must be the side to move.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, mark entity.Mark, row, col int) (*entity.Game, error) {
	if !mark.Valid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if game.Turn != mark {
		return nil, fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, game.Turn)
	}

	return that.applyMove(ctx, game, row, col)
}

// MakeBotTurn lets the bot play for whichever side is to move.
func (that *GameManager) MakeBotTurn(ctx context.Context, gameID string, difficulty bot.Difficulty) (*entity.Game, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, difficulty)
	}

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	pos, err := that.bot.FindMove(game, difficulty)
	if err != nil {
		return nil, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return that.applyMove(ctx, game, pos.Row, pos.Col)
}

// ValidateGame replays the stored history and checks it reproduces the stored game.
// Both records are read under the game's lock so a concurrent move is never seen half-saved.
func (that *GameManager) ValidateGame(ctx context.Context, gameID string) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	history, err := that.GetHistory(ctx, gameID)
	if err != nil {
		return nil, err
	}

	replayed, err := history.ReconstructGame()
	if err != nil {
		return nil, fmt.Errorf("failed to replay history: %w", err)
	}

	if !replayed.SameState(game) {
		return nil, fmt.Errorf("%w: replay ends %s, game is %s", apperror.ErrHistoryMismatch, replayed.Status, game.Status)
	}

	if game.IsFinished() && (history.FinalStatus == nil || *history.FinalStatus != game.Status) {
		return nil, fmt.Errorf("%w: final status not recorded", apperror.ErrHistoryMismatch)
	}

	return replayed, nil
}

// applyMove must be called with the game's lock held.
func (that *GameManager) applyMove(ctx context.Context, game *entity.Game, row, col int) (*entity.Game, error) {
	log := that.logger.With("game_id", game.ID)

	history, err := that.GetHistory(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	previous := *history

	mover := game.Turn
	if err = game.MakeMove(row, col); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	history.AddMove(mover, row, col)
	if game.IsFinished() {
		history.Finish(game.Status)
	}

	if err = that.historyRepo.CreateOrUpdate(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to update history: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		// the stored game never made this move, so neither may the history
		if restoreErr := that.historyRepo.CreateOrUpdate(ctx, &previous); restoreErr != nil {
			log.Error("could not restore history", "error", restoreErr)
			return nil, fmt.Errorf("failed to update game: %w", errors.Join(err, restoreErr))
		}

		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Debug("move played", "mark", mover, "row", row, "col", col, "status", game.Status.String())

	if game.IsFinished() {
		log.Info("game finished", "status", game.Status.String())
	}

	return game, nil
}
