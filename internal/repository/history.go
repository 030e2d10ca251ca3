package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const historyKeyPrefix = "history:"

type HistoryRepository interface {
	CreateOrUpdate(ctx context.Context, history *entity.History) error
	GetByGameID(ctx context.Context, gameID string) (*entity.History, error)
}

type dbHistory struct {
	client *redis.Client
}

func NewHistoryRepository(client *redis.Client) HistoryRepository {
	return &dbHistory{
		client: client,
	}
}

func (that *dbHistory) CreateOrUpdate(ctx context.Context, history *entity.History) error {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("could not marshal history: %w", err)
	}

	if err = that.client.Set(ctx, historyKeyPrefix+history.GameID, historyJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set history: %w", err)
	}

	return nil
}

func (that *dbHistory) GetByGameID(ctx context.Context, gameID string) (*entity.History, error) {
	response, err := that.client.Get(ctx, historyKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrHistoryNotFound, gameID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get history by game id: %w", err)
	}

	var history entity.History
	if err = json.Unmarshal(response, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	return &history, nil
}
