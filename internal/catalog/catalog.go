// Package catalog holds the static movie list loaded once at startup.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"

	"movie-discovery-browser/internal/models"
)

// ErrLoad is wrapped by every error returned from Load.
var ErrLoad = errors.New("catalog load failed")

// Store is the in-memory catalog. Records are fixed after Load except for
// the poster and overview fields written by Enrich.
type Store struct {
	mu     sync.RWMutex
	movies []models.Movie
	index  map[int]int
}

// Load reads the catalog from a file path or an http(s) URL.
func Load(ctx context.Context, source string) (*Store, error) {
	raw, err := read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	movies, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, source, err)
	}
	slog.Info("catalog loaded", "source", source, "movies", len(movies))
	return New(movies)
}

// Parse decodes a catalog document. Comments and trailing commas are allowed.
func Parse(raw []byte) ([]models.Movie, error) {
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	var movies []models.Movie
	if err := json.Unmarshal(std, &movies); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if movies == nil {
		return nil, errors.New("catalog is not a list")
	}
	return movies, nil
}

// New builds a Store from already-decoded movies.
func New(movies []models.Movie) (*Store, error) {
	s := &Store{
		movies: make([]models.Movie, 0, len(movies)),
		index:  make(map[int]int, len(movies)),
	}
	for _, m := range movies {
		if _, dup := s.index[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate movie id %d", ErrLoad, m.ID)
		}
		m = m.Clone()
		s.index[m.ID] = len(s.movies)
		s.movies = append(s.movies, m)
	}
	return s, nil
}

func read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return data, nil
}

// Len returns the number of movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// All returns a copy of every movie in catalog order.
func (s *Store) All() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Movie, len(s.movies))
	for i, m := range s.movies {
		out[i] = m.Clone()
	}
	return out
}

// FindByID resolves a movie by id.
func (s *Store) FindByID(id int) (models.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Movie{}, false
	}
	return s.movies[i].Clone(), true
}

// Enrich sets the poster and overview of a movie. Empty values leave the
// existing field untouched. Reports false when the id is unknown.
func (s *Store) Enrich(id int, poster, overview string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	if poster != "" {
		s.movies[i].Poster = poster
	}
	if overview != "" {
		s.movies[i].Overview = overview
	}
	return true
}

// Facets returns the control option lists: genres in first-seen order,
// actors and directors sorted.
func (s *Store) Facets() models.Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := models.Facets{Genres: []string{}, Actors: []string{}, Directors: []string{}}
	seenGenre := map[string]bool{}
	seenActor := map[string]bool{}
	seenDirector := map[string]bool{}

	for _, m := range s.movies {
		for _, g := range m.Genres {
			if !seenGenre[g] {
				seenGenre[g] = true
				f.Genres = append(f.Genres, g)
			}
		}
		for _, a := range m.Actors {
			if !seenActor[a] {
				seenActor[a] = true
				f.Actors = append(f.Actors, a)
			}
		}
		if !seenDirector[m.Director] {
			seenDirector[m.Director] = true
			f.Directors = append(f.Directors, m.Director)
		}
	}
	sort.Strings(f.Actors)
	sort.Strings(f.Directors)
	return f
}
