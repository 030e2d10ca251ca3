package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
)

// MoveHook runs after every applied move, e.g. to persist the game.
type MoveHook func(ctx context.Context, game *entity.Game, history *entity.History) error

// Match alternates two players on one game until it ends, logging every move.
type Match struct {
	logger  *slog.Logger
	out     io.Writer
	game    *entity.Game
	history *entity.History
	players map[entity.Mark]player.Player
	onMove  MoveHook
}

func NewMatch(logger *slog.Logger, out io.Writer, game *entity.Game, history *entity.History, x, o player.Player) (*Match, error) {
	if x.GetPlayerMark() != entity.PlayerX || o.GetPlayerMark() != entity.PlayerO {
		return nil, fmt.Errorf("%w: players must hold X and O", apperror.ErrInvalidMark)
	}

	return &Match{
		logger:  logger.With("component", "match", "game_id", game.ID),
		out:     out,
		game:    game,
		history: history,
		players: map[entity.Mark]player.Player{
			entity.PlayerX: x,
			entity.PlayerO: o,
		},
	}, nil
}

func (that *Match) OnMove(hook MoveHook) {
	that.onMove = hook
}

// Play runs the match to the end. Rejected moves are reported and the same player is asked again.
func (that *Match) Play(ctx context.Context) (*entity.Game, *entity.History, error) {
	for !that.game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return that.game, that.history, fmt.Errorf("match interrupted: %w", err)
		}

		current := that.players[that.game.Turn]

		fmt.Fprintf(that.out, "\n%s\n%s's turn (%s)\n", that.game.Board.String(), current.GetDisplayName(), that.game.Turn)

		pos, err := current.GetMove(that.game.Clone())
		if err != nil {
			return that.game, that.history, fmt.Errorf("failed to get move from %s: %w", current.GetDisplayName(), err)
		}

		mover := that.game.Turn
		if err = that.game.MakeMove(pos.Row, pos.Col); err != nil {
			if isRejectedMove(err) {
				fmt.Fprintf(that.out, "Error: %v\nPlease try again.\n", err)
				continue
			}
			return that.game, that.history, fmt.Errorf("failed to make move: %w", err)
		}

		that.history.AddMove(mover, pos.Row, pos.Col)
		if that.game.IsFinished() {
			that.history.Finish(that.game.Status)
		}

		that.logger.Debug("move played", "mark", mover, "row", pos.Row, "col", pos.Col)

		if that.onMove != nil {
			if err = that.onMove(ctx, that.game, that.history); err != nil {
				return that.game, that.history, fmt.Errorf("failed to save move: %w", err)
			}
		}
	}

	fmt.Fprintf(that.out, "\nFinal board:\n%s%s\n", that.game.Board.String(), that.result())

	return that.game, that.history, nil
}

func (that *Match) result() string {
	if that.game.Status.Kind == entity.KindWon {
		winner := that.players[that.game.Status.Winner]
		return fmt.Sprintf("%s (%s) wins!", winner.GetDisplayName(), that.game.Status.Winner)
	}

	return "It's a draw!"
}

func isRejectedMove(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) || errors.Is(err, apperror.ErrInvalidPosition)
}

// SaveMoves returns a hook that stores the game and its history after every move.
func SaveMoves(games gameRepo, histories historyRepo) MoveHook {
	return func(ctx context.Context, game *entity.Game, history *entity.History) error {
		if err := histories.CreateOrUpdate(ctx, history); err != nil {
			return fmt.Errorf("failed to update history: %w", err)
		}

		if err := games.CreateOrUpdate(ctx, game); err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		return nil
	}
}

// ResumeGame loads a stored game for another match. The history must replay to the
// stored game and the game must still be in progress.
func ResumeGame(ctx context.Context, games gameRepo, histories historyRepo, gameID string) (*entity.Game, *entity.History, error) {
	game, err := games.GetByID(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load game: %w", err)
	}

	history, err := histories.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	replayed, err := history.ReconstructGame()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to replay history: %w", err)
	}

	if !replayed.SameState(game) {
		return nil, nil, fmt.Errorf("%w: replay ends %s, game is %s", apperror.ErrHistoryMismatch, replayed.Status, game.Status)
	}

	if game.IsFinished() {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrGameFinished, game.Status)
	}

	return game, history, nil
}
