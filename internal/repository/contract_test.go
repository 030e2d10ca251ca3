package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func sampleGame(t *testing.T, id string) *entity.Game {
	t.Helper()

	game := entity.NewGameWithID(id)
	require.NoError(t, game.MakeMove(1, 1))
	require.NoError(t, game.MakeMove(0, 0))

	return game
}

func sampleHistory(id string, finished bool) *entity.History {
	started := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	history := &entity.History{
		GameID: id,
		Moves: []entity.Move{
			{Player: entity.PlayerX, Row: 1, Col: 1, Timestamp: started.Add(time.Second)},
			{Player: entity.PlayerO, Row: 0, Col: 0, Timestamp: started.Add(2 * time.Second)},
		},
		StartedAt: started,
	}

	if finished {
		ended := started.Add(time.Minute)
		status := entity.StatusWon(entity.PlayerX)
		history.EndedAt = &ended
		history.FinalStatus = &status
	}

	return history
}

func testGameRepository(ctx context.Context, t *testing.T, repo GameRepository) {
	t.Run("CreateOrUpdate and GetByID", func(t *testing.T) {
		// Given: a game with two moves
		game := sampleGame(t, "game-1")

		// When: it is stored and read back
		require.NoError(t, repo.CreateOrUpdate(ctx, game))
		stored, err := repo.GetByID(ctx, game.ID)

		// Then: the stored game matches
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Update overwrites", func(t *testing.T) {
		// Given: a stored game
		game := sampleGame(t, "game-2")
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: a move is made and the game is saved again
		require.NoError(t, game.MakeMove(2, 2))
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// Then: the latest state is returned
		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.Occupied(entity.PlayerX), stored.Board[2][2])
		assert.Equal(t, entity.PlayerO, stored.Turn)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		// When: GetByID is called with a non-existent id
		stored, err := repo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, stored)
	})

	t.Run("List returns games ordered by id", func(t *testing.T) {
		// Given: stored games
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame(t, "game-3")))

		// When: listing
		games, err := repo.List(ctx)

		// Then: all of them come back in id order
		require.NoError(t, err)
		ids := make([]string, 0, len(games))
		for _, game := range games {
			ids = append(ids, game.ID)
		}
		assert.Equal(t, []string{"game-1", "game-2", "game-3"}, ids)
	})
}

func testHistoryRepository(ctx context.Context, t *testing.T, repo HistoryRepository) {
	t.Run("Unfinished history round trip", func(t *testing.T) {
		// Given: a history still in progress
		history := sampleHistory("game-1", false)

		// When: it is stored and read back
		require.NoError(t, repo.CreateOrUpdate(ctx, history))
		stored, err := repo.GetByGameID(ctx, history.GameID)

		// Then: it matches
		require.NoError(t, err)
		assert.Equal(t, history, stored)
		assert.False(t, stored.IsFinished())
	})

	t.Run("Finished history overwrites", func(t *testing.T) {
		// Given: a stored history
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleHistory("game-2", false)))

		// When: the finished version is saved
		finished := sampleHistory("game-2", true)
		finished.AddMove(entity.PlayerX, 2, 2)
		require.NoError(t, repo.CreateOrUpdate(ctx, finished))

		// Then: the finished version is returned
		stored, err := repo.GetByGameID(ctx, "game-2")
		require.NoError(t, err)
		assert.True(t, stored.IsFinished())
		assert.Equal(t, entity.StatusWon(entity.PlayerX), *stored.FinalStatus)
		require.Len(t, stored.Moves, 3)
		assert.True(t, finished.Moves[2].Timestamp.Equal(stored.Moves[2].Timestamp))
	})

	t.Run("GetByGameID not found", func(t *testing.T) {
		_, err := repo.GetByGameID(ctx, "9999999")

		assert.ErrorIs(t, err, apperror.ErrHistoryNotFound)
	})
}
