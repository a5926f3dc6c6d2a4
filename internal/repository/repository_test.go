package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-browser/internal/config"
	"movie-discovery-browser/internal/database"
	"movie-discovery-browser/internal/repository"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

func backends(t *testing.T) map[string]kv {
	t.Helper()

	db, err := database.NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	files, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	return map[string]kv{
		"sqlite": repository.NewSQLRepository(db, repository.SQLite),
		"redis":  repository.NewRedisRepository(rdb, "browser:"),
		"file":   files,
	}
}

func TestRepositoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, "movieWatchlist")
			require.NoError(t, err)
			assert.Nil(t, got, "absent key reads as nil")

			require.NoError(t, store.Set(ctx, "movieWatchlist", []byte(`[{"id":1}]`)))
			got, err = store.Get(ctx, "movieWatchlist")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":1}]`, string(got))

			require.NoError(t, store.Set(ctx, "movieWatchlist", []byte(`[]`)))
			got, err = store.Get(ctx, "movieWatchlist")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			other, err := store.Get(ctx, "other")
			require.NoError(t, err)
			assert.Nil(t, other)
		})
	}
}

func TestRedisRepositoryUsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := repository.NewRedisRepository(rdb, "browser:")
	require.NoError(t, repo.Set(context.Background(), "movieWatchlist", []byte("[]")))

	value, err := mr.Get("browser:movieWatchlist")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
	assert.Zero(t, mr.TTL("browser:movieWatchlist"))
}

func TestRedisRepositorySurfacesErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	repo := repository.NewRedisRepository(rdb, "")

	mr.Close()
	_, err := repo.Get(context.Background(), "k")
	require.Error(t, err)
	require.Error(t, repo.Set(context.Background(), "k", []byte("v")))
}

func TestFileRepositoryEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	repo, err := repository.NewFileRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Set(context.Background(), "../escape", []byte("x")))
	_, err = os.Stat(filepath.Join(dir, "..%2Fescape.json"))
	require.NoError(t, err)
}
