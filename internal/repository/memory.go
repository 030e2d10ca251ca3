package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// memoryGame keeps games in a map guarded by a single reader/writer lock.
// Values are copied in and out so callers never share state with the store.
type memoryGame struct {
	mu    sync.RWMutex
	games map[string]entity.Game
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return &game, nil
}

func (that *memoryGame) List(_ context.Context) ([]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := make([]*entity.Game, 0, len(that.games))
	for _, game := range that.games {
		games = append(games, &game)
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })

	return games, nil
}

type memoryHistory struct {
	mu        sync.RWMutex
	histories map[string]*entity.History
}

func NewMemoryHistoryRepository() HistoryRepository {
	return &memoryHistory{
		histories: make(map[string]*entity.History),
	}
}

func (that *memoryHistory) CreateOrUpdate(_ context.Context, history *entity.History) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.histories[history.GameID] = copyHistory(history)

	return nil
}

func (that *memoryHistory) GetByGameID(_ context.Context, gameID string) (*entity.History, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	history, ok := that.histories[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrHistoryNotFound, gameID)
	}

	return copyHistory(history), nil
}

func copyHistory(history *entity.History) *entity.History {
	clone := *history
	clone.Moves = append([]entity.Move{}, history.Moves...)

	if history.EndedAt != nil {
		endedAt := *history.EndedAt
		clone.EndedAt = &endedAt
	}

	if history.FinalStatus != nil {
		status := *history.FinalStatus
		clone.FinalStatus = &status
	}

	return &clone
}
