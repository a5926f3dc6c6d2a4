package enrich_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-browser/internal/catalog"
	"movie-discovery-browser/internal/enrich"
	"movie-discovery-browser/internal/models"
	"movie-discovery-browser/internal/tmdb"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]*tmdb.SearchResponse
	errs    map[string]error
}

func (f *fakeSearcher) SearchMovie(_ context.Context, title string, _ int) (*tmdb.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[title]++
	if err := f.errs[title]; err != nil {
		return nil, err
	}
	if resp, ok := f.results[title]; ok {
		return resp, nil
	}
	return &tmdb.SearchResponse{}, nil
}

func newStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.New([]models.Movie{
		{ID: 1, Title: "Heat", Year: 1995},
		{ID: 2, Title: "Alien", Year: 1979},
		{ID: 3, Title: "Obscure", Year: 2001},
	})
	require.NoError(t, err)
	return store
}

func searcher() *fakeSearcher {
	return &fakeSearcher{
		results: map[string]*tmdb.SearchResponse{
			"Heat": {Results: []tmdb.SearchItem{
				{PosterPath: "/heat.jpg", Overview: "A group of thieves."},
				{PosterPath: "/other.jpg", Overview: "ignored"},
			}},
		},
		errs: map[string]error{
			"Alien": errors.New("connection reset"),
		},
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	store := newStore(t)
	e := enrich.New(searcher(), "https://image.tmdb.org/t/p/w342/", enrich.WithConcurrency(2))

	res := e.Run(context.Background(), store)
	assert.Equal(t, enrich.Result{Enriched: 1, NoResult: 1, Failed: 1}, res)

	heat, _ := store.FindByID(1)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/heat.jpg", heat.Poster)
	assert.Equal(t, "A group of thieves.", heat.Overview)

	alien, _ := store.FindByID(2)
	assert.Empty(t, alien.Poster, "failed lookup leaves the record untouched")

	obscure, _ := store.FindByID(3)
	assert.Empty(t, obscure.Poster)
	assert.Empty(t, obscure.Overview)
}

func TestRunKeepsOverviewWithoutPoster(t *testing.T) {
	store := newStore(t)
	s := &fakeSearcher{results: map[string]*tmdb.SearchResponse{
		"Obscure": {Results: []tmdb.SearchItem{{Overview: "Nobody saw it."}}},
	}}

	enrich.New(s, "https://img").Run(context.Background(), store)

	obscure, _ := store.FindByID(3)
	assert.Empty(t, obscure.Poster)
	assert.Equal(t, "Nobody saw it.", obscure.Overview)
}

func TestRunUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := searcher()
	e := enrich.New(s, "https://img", enrich.WithCache(rdb, time.Hour))

	first := e.Run(context.Background(), newStore(t))
	assert.Zero(t, first.Cached)
	assert.True(t, mr.Exists("tmdb:search:heat:1995"))
	assert.False(t, mr.Exists("tmdb:search:alien:1979"), "failures are not cached")

	second := e.Run(context.Background(), newStore(t))
	assert.Equal(t, 2, second.Cached)
	assert.Equal(t, 1, second.Enriched)
	assert.Equal(t, 1, s.calls["Heat"])
	assert.Equal(t, 2, s.calls["Alien"])
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocking := &fakeSearcher{}
	res := enrich.New(blocking, "https://img", enrich.WithConcurrency(1)).Run(ctx, newStore(t))
	assert.Equal(t, 3, res.Enriched+res.NoResult+res.Failed)
}
