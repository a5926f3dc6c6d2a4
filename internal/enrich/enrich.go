// Package enrich fills catalog posters and overviews from TMDB search.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"movie-discovery-browser/internal/catalog"
	"movie-discovery-browser/internal/metrics"
	"movie-discovery-browser/internal/models"
	"movie-discovery-browser/internal/tmdb"
)

// Searcher looks up a movie by title and release year.
type Searcher interface {
	SearchMovie(ctx context.Context, title string, year int) (*tmdb.SearchResponse, error)
}

// Result summarizes one enrichment pass.
type Result struct {
	Enriched int
	NoResult int
	Failed   int
	Cached   int
}

// lookup is the cached outcome of a single search.
type lookup struct {
	Poster   string `json:"poster"`
	Overview string `json:"overview"`
}

// Enricher runs poster lookups for every catalog record.
type Enricher struct {
	searcher    Searcher
	imageBase   string
	concurrency int
	timeout     time.Duration
	redis       *redis.Client
	cacheTTL    time.Duration
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithCache caches lookups in Redis. A nil client disables caching.
func WithCache(rdb *redis.Client, ttl time.Duration) Option {
	return func(e *Enricher) {
		e.redis = rdb
		e.cacheTTL = ttl
	}
}

// WithConcurrency bounds the number of lookups in flight.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTimeout sets the per-lookup deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an Enricher. imageBase is prefixed to every poster path.
func New(searcher Searcher, imageBase string, opts ...Option) *Enricher {
	e := &Enricher{
		searcher:    searcher,
		imageBase:   strings.TrimRight(imageBase, "/"),
		concurrency: 8,
		timeout:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run looks up every movie in store and writes back what it finds. A failed
// lookup leaves its record untouched and never affects the others. Run
// returns once every lookup has finished.
func (e *Enricher) Run(ctx context.Context, store *catalog.Store) Result {
	movies := store.All()
	sem := make(chan struct{}, e.concurrency)

	var (
		wg                                 sync.WaitGroup
		enriched, noResult, failed, cached atomic.Int64
	)

	for _, m := range movies {
		wg.Add(1)
		go func(m models.Movie) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				failed.Add(1)
				metrics.EnrichmentLookups.WithLabelValues("failed").Inc()
				return
			}
			defer func() { <-sem }()

			found, hit, err := e.lookup(ctx, m)
			switch {
			case err != nil:
				failed.Add(1)
				metrics.EnrichmentLookups.WithLabelValues("failed").Inc()
				slog.Warn("poster lookup failed", "movie_id", m.ID, "title", m.Title, "error", err)
				return
			case hit:
				cached.Add(1)
				metrics.EnrichmentLookups.WithLabelValues("cached").Inc()
			}

			if found.Poster == "" && found.Overview == "" {
				noResult.Add(1)
				if !hit {
					metrics.EnrichmentLookups.WithLabelValues("no_result").Inc()
				}
				return
			}
			store.Enrich(m.ID, found.Poster, found.Overview)
			enriched.Add(1)
			if !hit {
				metrics.EnrichmentLookups.WithLabelValues("enriched").Inc()
			}
		}(m)
	}
	wg.Wait()

	res := Result{
		Enriched: int(enriched.Load()),
		NoResult: int(noResult.Load()),
		Failed:   int(failed.Load()),
		Cached:   int(cached.Load()),
	}
	slog.Info("poster enrichment finished",
		"movies", len(movies),
		"enriched", res.Enriched,
		"no_result", res.NoResult,
		"failed", res.Failed,
		"cached", res.Cached,
	)
	return res
}

func (e *Enricher) lookup(ctx context.Context, m models.Movie) (lookup, bool, error) {
	cacheKey := fmt.Sprintf("tmdb:search:%s:%d", strings.ToLower(m.Title), m.Year)
	if cachedValue, err := e.getFromCache(ctx, cacheKey); err == nil {
		var found lookup
		if json.Unmarshal([]byte(cachedValue), &found) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return found, true, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.searcher.SearchMovie(callCtx, m.Title, m.Year)
	if err != nil {
		return lookup{}, false, err
	}

	var found lookup
	if resp != nil && len(resp.Results) > 0 {
		first := resp.Results[0]
		if first.PosterPath != "" {
			found.Poster = e.imageBase + first.PosterPath
		}
		found.Overview = first.Overview
	}

	if data, err := json.Marshal(found); err == nil {
		e.setCache(ctx, cacheKey, string(data))
	}
	return found, false, nil
}

// ---- Redis Helpers ----

func (e *Enricher) getFromCache(ctx context.Context, key string) (string, error) {
	if e.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return e.redis.Get(ctx, key).Result()
}

func (e *Enricher) setCache(ctx context.Context, key, value string) {
	if e.redis == nil {
		return
	}
	if err := e.redis.Set(ctx, key, value, e.cacheTTL).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
