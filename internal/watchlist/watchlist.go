// Package watchlist keeps the user's saved movies in a key-value store.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"movie-discovery-browser/internal/metrics"
	"movie-discovery-browser/internal/models"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "movieWatchlist"

// ErrPersist wraps every read or write failure of the backing store.
var ErrPersist = errors.New("watchlist persistence failed")

// KV is the persistence collaborator. Get returns nil, nil for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is the watchlist. It keeps no in-memory copy; every call reads the
// backing store.
type Store struct {
	kv  KV
	key string
}

// New creates a Store persisting under key.
func New(kv KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// List returns the saved movies in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Movie, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if len(raw) == 0 {
		return []models.Movie{}, nil
	}
	var list []models.Movie
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrPersist, s.key, err)
	}
	if list == nil {
		list = []models.Movie{}
	}
	return list, nil
}

// Contains reports whether a movie with id is saved.
func (s *Store) Contains(ctx context.Context, id int) (bool, error) {
	list, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(list, id) >= 0, nil
}

// IDs returns the set of saved movie ids.
func (s *Store) IDs(ctx context.Context) (map[int]struct{}, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]struct{}, len(list))
	for _, m := range list {
		ids[m.ID] = struct{}{}
	}
	return ids, nil
}

// Toggle removes the movie if it is saved, otherwise appends a snapshot of
// it. The whole list is rewritten. added reports the resulting membership.
func (s *Store) Toggle(ctx context.Context, movie models.Movie) (added bool, err error) {
	list, err := s.List(ctx)
	if err != nil {
		metrics.WatchlistToggles.WithLabelValues("failed").Inc()
		return false, err
	}

	if i := indexOf(list, movie.ID); i >= 0 {
		list = append(list[:i], list[i+1:]...)
	} else {
		list = append(list, movie.Clone())
		added = true
	}

	raw, err := json.Marshal(list)
	if err != nil {
		metrics.WatchlistToggles.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		metrics.WatchlistToggles.WithLabelValues("failed").Inc()
		slog.Error("failed to save watchlist", "movie_id", movie.ID, "error", err)
		return false, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if added {
		metrics.WatchlistToggles.WithLabelValues("added").Inc()
	} else {
		metrics.WatchlistToggles.WithLabelValues("removed").Inc()
	}
	slog.Debug("watchlist toggled", "movie_id", movie.ID, "added", added, "size", len(list))
	return added, nil
}

func indexOf(list []models.Movie, id int) int {
	for i, m := range list {
		if m.ID == id {
			return i
		}
	}
	return -1
}
