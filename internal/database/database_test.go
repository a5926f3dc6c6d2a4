package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-browser/internal/config"
	"movie-discovery-browser/internal/database"
)

func TestNewSQLiteCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "watchlist.db")

	db, err := database.NewSQLite(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_store'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv_store", name)

	// Migrations are idempotent.
	db2, err := database.NewSQLite(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	db2.Close()
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	addr := mr.Addr()
	client, err := database.NewRedis(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	mr.Close()
	_, err = database.NewRedis(context.Background(), config.RedisConfig{Addr: addr})
	require.Error(t, err)
}
