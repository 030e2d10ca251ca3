package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
)

func TestHistoryRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	conn, err := storage.NewSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	testHistoryRepository(ctx, t, NewSQLiteHistoryRepository(conn))
}
