// Package browse derives the displayed view list from the catalog and the
// current filter state.
package browse

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"movie-discovery-browser/internal/models"
)

// Matches reports whether m passes every active constraint in fs.
// watchlist is only consulted when fs.WatchlistOnly is set.
func Matches(m models.Movie, fs models.FilterState, watchlist map[int]struct{}) bool {
	if q := fs.Query(); q != "" && !strings.Contains(strings.ToLower(m.Title), q) {
		return false
	}
	if fs.Genre != "" && !m.HasGenre(fs.Genre) {
		return false
	}
	if fs.Actor != "" && !m.HasActor(fs.Actor) {
		return false
	}
	if fs.Director != "" && m.Director != fs.Director {
		return false
	}
	if fs.WatchlistOnly {
		if _, ok := watchlist[m.ID]; !ok {
			return false
		}
	}
	return true
}

// ComputeView filters movies by fs and sorts the result. The input slice is
// never reordered; equal sort keys keep their catalog order.
func ComputeView(movies []models.Movie, fs models.FilterState, watchlist map[int]struct{}) []models.Movie {
	view := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if Matches(m, fs, watchlist) {
			view = append(view, m)
		}
	}
	Sort(view, fs.Sort)
	return view
}

// Sort orders list in place by key using a stable sort.
func Sort(list []models.Movie, key models.SortKey) {
	switch key {
	case models.SortRating:
		slices.SortStableFunc(list, func(a, b models.Movie) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case models.SortNewest:
		slices.SortStableFunc(list, func(a, b models.Movie) int {
			return cmp.Compare(b.Year, a.Year)
		})
	case models.SortOldest:
		slices.SortStableFunc(list, func(a, b models.Movie) int {
			return cmp.Compare(a.Year, b.Year)
		})
	case models.SortTitle:
		// Collators keep scratch buffers and must not be shared.
		c := collate.New(language.English)
		slices.SortStableFunc(list, func(a, b models.Movie) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
}

// Featured picks the highest-rated movie of the view, first one on ties.
func Featured(view []models.Movie) (models.Movie, bool) {
	if len(view) == 0 {
		return models.Movie{}, false
	}
	best := view[0]
	for _, m := range view[1:] {
		if m.Rating > best.Rating {
			best = m
		}
	}
	return best, true
}
