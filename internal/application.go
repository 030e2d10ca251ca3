package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/bot"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type repositories struct {
	games     repository.GameRepository
	histories repository.HistoryRepository
	close     func()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	difficulty, err := bot.ParseDifficulty(conf.Bot.Difficulty)
	if err != nil {
		return fmt.Errorf("bad bot difficulty: %w", err)
	}

	repos, err := openRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	engine := newEngine(log, conf.Bot.Seed)

	switch conf.Mode {
	case config.ModePlay:
		return runPlay(ctx, logger, conf, repos, engine, difficulty)
	default:
		return runServe(ctx, logger, conf, repos, engine, difficulty)
	}
}

func runServe(ctx context.Context, logger *slog.Logger, conf *config.Config, repos *repositories, engine *bot.Engine, difficulty bot.Difficulty) error {
	log := logger.With("component", "app")

	gameUseCase := usecase.NewGameManager(logger, repos.games, repos.histories, engine)
	router := rest.NewRouter(logger, gameUseCase, difficulty)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// runPlay runs one console match, new or resumed, between the configured seats.
func runPlay(ctx context.Context, logger *slog.Logger, conf *config.Config, repos *repositories, engine *bot.Engine, difficulty bot.Difficulty) error {
	log := logger.With("component", "app")

	x, o, err := newSeats(logger, &conf.Play, engine, difficulty, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	game, history, err := openGame(ctx, &conf.Play, repos)
	if err != nil {
		return err
	}

	match, err := usecase.NewMatch(logger, os.Stdout, game, history, x, o)
	if err != nil {
		return fmt.Errorf("failed to set up match: %w", err)
	}
	match.OnMove(usecase.SaveMoves(repos.games, repos.histories))

	log.Info("Starting console match", "game_id", game.ID, "x", x.GetDisplayName(), "o", o.GetDisplayName(), "moves", len(history.Moves))

	// reading stdin cannot be interrupted, so the match runs aside and a signal abandons it
	errCh := make(chan error, 1)
	go func() {
		_, _, playErr := match.Play(ctx)
		errCh <- playErr
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("match failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Match abandoned", "game_id", game.ID)
		return nil
	}
}

// newSeats returns the X and O players. Two humans share one input scanner.
func newSeats(logger *slog.Logger, conf *config.Play, engine *bot.Engine, difficulty bot.Difficulty, in io.Reader, out io.Writer) (player.Player, player.Player, error) {
	humanMark, err := entity.ParseMark(conf.HumanMark)
	if err != nil {
		return nil, nil, fmt.Errorf("bad human mark: %w", err)
	}

	scanner := bufio.NewScanner(in)
	human := player.NewHumanFromScanner(humanMark, conf.HumanName, scanner, out)

	var opponent player.Player
	if conf.Opponent == config.OpponentHuman {
		opponent = player.NewHumanFromScanner(humanMark.Opponent(), conf.OpponentName, scanner, out)
	} else {
		opponent = bot.NewPlayer(logger, engine, humanMark.Opponent(), difficulty)
	}

	if humanMark == entity.PlayerX {
		return human, opponent, nil
	}

	return opponent, human, nil
}

// openGame resumes the configured game or stores a fresh one.
func openGame(ctx context.Context, conf *config.Play, repos *repositories) (*entity.Game, *entity.History, error) {
	if conf.ResumeID != "" {
		game, history, err := usecase.ResumeGame(ctx, repos.games, repos.histories, conf.ResumeID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resume game: %w", err)
		}
		return game, history, nil
	}

	game := entity.NewGame()
	history := game.NewHistory()

	if err := usecase.SaveMoves(repos.games, repos.histories)(ctx, game, history); err != nil {
		return nil, nil, fmt.Errorf("failed to save new game: %w", err)
	}

	return game, history, nil
}

func openRepositories(ctx context.Context, log *slog.Logger, conf *config.Config) (*repositories, error) {
	repos := &repositories{close: func() {}}
	var closers []func()

	var redisStorage *redis.Client
	if conf.Storage.NeedsRedis() {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		client, err := storage.NewRedis(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}
		redisStorage = client

		closers = append(closers, func() {
			if err = client.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		})
	}

	switch conf.Storage.Games {
	case config.StorageRedis:
		repos.games = repository.NewGameRepository(redisStorage)
	default:
		repos.games = repository.NewMemoryGameRepository()
	}

	switch conf.Storage.History {
	case config.StorageRedis:
		repos.histories = repository.NewHistoryRepository(redisStorage)
	case config.StorageSQLite:
		conn, err := storage.NewSQLite(ctx, conf.Storage.SQLitePath)
		if err != nil {
			for _, closeFn := range closers {
				closeFn()
			}
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		closers = append(closers, func() {
			if err = conn.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		})
		repos.histories = repository.NewSQLiteHistoryRepository(conn)
	default:
		repos.histories = repository.NewMemoryHistoryRepository()
	}

	repos.close = func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	log.Info("Storage ready", "games", conf.Storage.Games, "history", conf.Storage.History)

	return repos, nil
}

func newEngine(log *slog.Logger, seed uint64) *bot.Engine {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint: gosec // clock is positive
	}

	log.Debug("Bot engine seeded", "seed", seed)

	return bot.NewSeededEngine(seed)
}
