package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"movie-discovery-browser/internal/browse"
	"movie-discovery-browser/internal/catalog"
	"movie-discovery-browser/internal/insights"
	"movie-discovery-browser/internal/models"
	"movie-discovery-browser/internal/recommend"
	"movie-discovery-browser/internal/urlstate"
	"movie-discovery-browser/internal/watchlist"
)

var (
	ErrNotLoaded   = errors.New("catalog not loaded")
	ErrNoSelection = errors.New("no movie selected")
	ErrNotFound    = errors.New("movie not found")
	ErrEmptyView   = errors.New("no movies in view")
)

// Status is the catalog lifecycle as seen by the presentation.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// LocationPath is the path the serialized state is appended to.
const LocationPath = "/"

// BrowserService owns the single live filter state and selection. Every
// mutation runs under mu and finishes before the next one starts.
type BrowserService struct {
	mu sync.Mutex

	catalog        *catalog.Store
	watchlist      *watchlist.Store
	fallbackPoster string
	intN           func(n int) int

	status  Status
	loadErr error

	state      models.FilterState
	selectedID int
}

// Option configures a BrowserService.
type Option func(*BrowserService)

// WithRand replaces the random source used by RandomPick and SurpriseMe.
func WithRand(r *rand.Rand) Option {
	return func(s *BrowserService) {
		if r != nil {
			s.intN = r.IntN
		}
	}
}

// WithFallbackPoster sets the poster shown for movies without one.
func WithFallbackPoster(url string) Option {
	return func(s *BrowserService) {
		if url != "" {
			s.fallbackPoster = url
		}
	}
}

// NewBrowserService creates a session in the loading state.
func NewBrowserService(wl *watchlist.Store, opts ...Option) *BrowserService {
	s := &BrowserService{
		watchlist:      wl,
		fallbackPoster: models.DefaultFallbackPoster,
		intN:           rand.IntN,
		status:         StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach installs the loaded catalog and marks the session ready.
func (s *BrowserService) Attach(store *catalog.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = store
	s.status = StatusReady
	s.loadErr = nil
	slog.Info("session ready", "movies", store.Len())
}

// Fail records a catalog load failure. The session stays unloaded.
func (s *BrowserService) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
	s.loadErr = err
}

// Status reports the catalog lifecycle and the load error, if any.
func (s *BrowserService) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.loadErr
}

// Restore replaces the filter state and selection from a serialized query.
// The view is derived before the selection is resolved, so a selected movie
// outside the filtered view still opens.
func (s *BrowserService) Restore(ctx context.Context, raw string) (*models.ViewResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	fs, id := urlstate.Deserialize(raw)
	s.state = fs
	s.selectedID = 0

	view, err := s.viewLocked(ctx)
	if err != nil {
		return nil, err
	}
	if id > 0 {
		if _, ok := s.catalog.FindByID(id); ok {
			s.selectedID = id
		} else {
			slog.Debug("restored selection not in catalog", "movie_id", id)
		}
	}
	s.finish(view)
	return view, nil
}

// State returns the current filter state.
func (s *BrowserService) State() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View derives the current view, insights, featured movie, and location.
func (s *BrowserService) View(ctx context.Context) (*models.ViewResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	view, err := s.viewLocked(ctx)
	if err != nil {
		return nil, err
	}
	s.finish(view)
	return view, nil
}

// Apply writes a partial filter update.
func (s *BrowserService) Apply(ctx context.Context, patch models.FilterPatch) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { patch.Apply(fs) })
}

// SetSearch replaces the search text. It is matched lowercased, as typed.
func (s *BrowserService) SetSearch(ctx context.Context, text string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.Search = text })
}

// ToggleGenre selects genre, or clears the genre filter when genre is
// already the active one.
func (s *BrowserService) ToggleGenre(ctx context.Context, genre string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) {
		if fs.Genre == genre {
			fs.Genre = ""
		} else {
			fs.Genre = genre
		}
	})
}

// SetGenre sets the genre filter; an empty genre clears it.
func (s *BrowserService) SetGenre(ctx context.Context, genre string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.Genre = genre })
}

// SetActor sets the actor filter; an empty actor clears it.
func (s *BrowserService) SetActor(ctx context.Context, actor string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.Actor = actor })
}

// SetDirector sets the director filter; an empty director clears it.
func (s *BrowserService) SetDirector(ctx context.Context, director string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.Director = director })
}

// SetSort sets the ordering. Unknown keys mean no sort.
func (s *BrowserService) SetSort(ctx context.Context, key string) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.Sort = models.ParseSortKey(key) })
}

// ToggleWatchlistOnly switches between the whole catalog and saved movies.
func (s *BrowserService) ToggleWatchlistOnly(ctx context.Context) (*models.ViewResponse, error) {
	return s.mutate(ctx, func(fs *models.FilterState) { fs.WatchlistOnly = !fs.WatchlistOnly })
}

// Select makes id the current selection and returns its details.
// An unknown id leaves the selection unchanged.
func (s *BrowserService) Select(ctx context.Context, id int) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	movie, ok := s.catalog.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.selectedID = id
	return s.detailLocked(ctx, movie)
}

// Selected re-resolves the current selection against the catalog.
func (s *BrowserService) Selected(ctx context.Context) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	movie, err := s.selectedLocked()
	if err != nil {
		return nil, err
	}
	return s.detailLocked(ctx, movie)
}

// ClearSelection drops the current selection.
func (s *BrowserService) ClearSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.selectedID = 0
	return nil
}

// RandomPick selects a movie uniformly from the whole catalog.
func (s *BrowserService) RandomPick(ctx context.Context) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	all := s.catalog.All()
	if len(all) == 0 {
		return nil, ErrEmptyView
	}
	movie := all[s.intN(len(all))]
	s.selectedID = movie.ID
	return s.detailLocked(ctx, movie)
}

// SurpriseMe selects a movie uniformly from the current view.
func (s *BrowserService) SurpriseMe(ctx context.Context) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	view, err := s.viewLocked(ctx)
	if err != nil {
		return nil, err
	}
	if len(view.Movies) == 0 {
		return nil, ErrEmptyView
	}
	movie := view.Movies[s.intN(len(view.Movies))]
	s.selectedID = movie.ID
	return s.detailLocked(ctx, movie)
}

// ToggleWatchlist adds or removes the selected movie. On a persistence
// failure the watchlist is unchanged and the error is returned.
func (s *BrowserService) ToggleWatchlist(ctx context.Context) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	movie, err := s.selectedLocked()
	if err != nil {
		return nil, err
	}
	if _, err := s.watchlist.Toggle(ctx, movie); err != nil {
		return nil, fmt.Errorf("toggle watchlist: %w", err)
	}
	return s.detailLocked(ctx, movie)
}

// Watchlist returns the saved snapshots in insertion order.
func (s *BrowserService) Watchlist(ctx context.Context) ([]models.Movie, error) {
	return s.watchlist.List(ctx)
}

// Refresh re-derives the view after the catalog changed underneath the
// session, and re-resolves the selection when there is one.
func (s *BrowserService) Refresh(ctx context.Context) (*models.ViewResponse, *models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	view, err := s.viewLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.finish(view)

	if s.selectedID == 0 {
		return view, nil, nil
	}
	movie, err := s.selectedLocked()
	if err != nil {
		return view, nil, nil
	}
	detail, err := s.detailLocked(ctx, movie)
	if err != nil {
		return nil, nil, err
	}
	return view, detail, nil
}

// Facets returns the option lists for the filter controls.
func (s *BrowserService) Facets() (models.Facets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Facets{}, err
	}
	return s.catalog.Facets(), nil
}

// ---- Helpers ----

func (s *BrowserService) ready() error {
	if s.catalog == nil {
		return ErrNotLoaded
	}
	return nil
}

func (s *BrowserService) mutate(ctx context.Context, fn func(*models.FilterState)) (*models.ViewResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	next := s.state
	fn(&next)
	next.Validate()

	prev := s.state
	s.state = next
	view, err := s.viewLocked(ctx)
	if err != nil {
		s.state = prev
		return nil, err
	}
	s.finish(view)
	slog.Debug("filters changed", "location", view.Location, "results", len(view.Movies))
	return view, nil
}

func (s *BrowserService) viewLocked(ctx context.Context) (*models.ViewResponse, error) {
	var saved map[int]struct{}
	if s.state.WatchlistOnly {
		ids, err := s.watchlist.IDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("read watchlist: %w", err)
		}
		saved = ids
	}

	movies := browse.ComputeView(s.catalog.All(), s.state, saved)
	view := &models.ViewResponse{
		State:    s.state,
		Movies:   movies,
		Empty:    len(movies) == 0,
		Insights: insights.Aggregate(movies),
	}
	if featured, ok := browse.Featured(movies); ok {
		view.Featured = &featured
	}
	return view, nil
}

// finish stamps the selection and location onto a view.
func (s *BrowserService) finish(view *models.ViewResponse) {
	view.Selected = s.selectedID
	view.Location = urlstate.Location(LocationPath, s.state, s.selectedID)
}

func (s *BrowserService) selectedLocked() (models.Movie, error) {
	if s.selectedID == 0 {
		return models.Movie{}, ErrNoSelection
	}
	movie, ok := s.catalog.FindByID(s.selectedID)
	if !ok {
		return models.Movie{}, fmt.Errorf("%w: id %d", ErrNotFound, s.selectedID)
	}
	return movie, nil
}

func (s *BrowserService) detailLocked(ctx context.Context, movie models.Movie) (*models.MovieDetail, error) {
	saved, err := s.watchlist.Contains(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return &models.MovieDetail{
		Movie:           movie,
		PosterURL:       models.PosterOrFallback(movie, s.fallbackPoster),
		InWatchlist:     saved,
		Recommendations: recommend.Recommend(s.catalog.All(), movie, recommend.DefaultCount),
	}, nil
}
