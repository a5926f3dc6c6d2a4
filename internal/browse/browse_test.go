package browse_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-browser/internal/browse"
	"movie-discovery-browser/internal/models"
)

func fixture() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "Heat", Year: 1995, Genres: []string{"Crime", "Drama"}, Actors: []string{"Al Pacino", "Robert De Niro"}, Director: "Michael Mann", Rating: 8.3},
		{ID: 2, Title: "alien", Year: 1979, Genres: []string{"Horror", "Sci-Fi"}, Actors: []string{"Sigourney Weaver"}, Director: "Ridley Scott", Rating: 8.5},
		{ID: 3, Title: "Collateral", Year: 2004, Genres: []string{"Crime"}, Actors: []string{"Tom Cruise"}, Director: "Michael Mann", Rating: 7.5},
		{ID: 4, Title: "Brazil", Year: 1985, Genres: []string{"Sci-Fi", "Drama"}, Actors: []string{"Robert De Niro"}, Director: "Terry Gilliam"},
		{ID: 5, Title: "Élite Squad", Year: 2007, Genres: []string{"Crime"}, Actors: []string{}, Director: "José Padilha", Rating: 8.0},
		{ID: 6, Title: "Heat Wave", Year: 1995, Genres: []string{"Drama"}, Actors: []string{"Al Pacino"}, Director: "Nobody", Rating: 8.3},
	}
}

func ids(list []models.Movie) []int {
	out := make([]int, len(list))
	for i, m := range list {
		out[i] = m.ID
	}
	return out
}

func TestComputeViewFilters(t *testing.T) {
	watchlist := map[int]struct{}{3: {}, 4: {}}

	tests := []struct {
		name string
		fs   models.FilterState
		want []int
	}{
		{"no constraints keeps catalog order", models.FilterState{}, []int{1, 2, 3, 4, 5, 6}},
		{"search is case-insensitive substring", models.FilterState{Search: "HEA"}, []int{1, 6}},
		{"genre membership", models.FilterState{Genre: "Drama"}, []int{1, 4, 6}},
		{"actor membership", models.FilterState{Actor: "Robert De Niro"}, []int{1, 4}},
		{"director equality", models.FilterState{Director: "Michael Mann"}, []int{1, 3}},
		{"watchlist only", models.FilterState{WatchlistOnly: true}, []int{3, 4}},
		{"combined constraints", models.FilterState{Genre: "Crime", Director: "Michael Mann", WatchlistOnly: true}, []int{3}},
		{"genre match is exact", models.FilterState{Genre: "drama"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := browse.ComputeView(fixture(), tt.fs, watchlist)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Fatalf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchWhitespaceIsSignificant(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "Theory of Everything"},
		{ID: 2, Title: "Into the Wild"},
	}

	got := browse.ComputeView(movies, models.FilterState{Search: " the"}, nil)
	assert.Equal(t, []int{2}, ids(got))

	got = browse.ComputeView(movies, models.FilterState{Search: "   "}, nil)
	assert.Empty(t, got, "a blank search still constrains the view")
}

func TestComputeViewPartitionsCatalog(t *testing.T) {
	movies := fixture()
	watchlist := map[int]struct{}{1: {}, 5: {}}
	states := []models.FilterState{
		{Search: "a", Genre: "Crime"},
		{Actor: "Al Pacino", Sort: models.SortTitle},
		{Director: "Michael Mann", WatchlistOnly: true, Sort: models.SortRating},
		{Search: "zzz"},
	}
	for _, fs := range states {
		view := browse.ComputeView(movies, fs, watchlist)
		in := map[int]bool{}
		for _, m := range view {
			in[m.ID] = true
			assert.True(t, browse.Matches(m, fs, watchlist), "included %d fails %+v", m.ID, fs)
		}
		for _, m := range movies {
			if !in[m.ID] {
				assert.False(t, browse.Matches(m, fs, watchlist), "excluded %d passes %+v", m.ID, fs)
			}
		}
	}
}

func TestComputeViewSorts(t *testing.T) {
	tests := []struct {
		sort models.SortKey
		want []int
	}{
		// 1 and 6 share 8.3 and keep catalog order; 4 has no rating.
		{models.SortRating, []int{2, 1, 6, 5, 3, 4}},
		{models.SortNewest, []int{5, 3, 1, 6, 4, 2}},
		{models.SortOldest, []int{2, 4, 1, 6, 3, 5}},
		// Locale order ignores case and accents.
		{models.SortTitle, []int{2, 4, 3, 5, 1, 6}},
		{models.SortNone, []int{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := browse.ComputeView(fixture(), models.FilterState{Sort: tt.sort}, nil)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeViewIsPureAndIdempotent(t *testing.T) {
	movies := fixture()
	fs := models.FilterState{Sort: models.SortTitle}

	first := browse.ComputeView(movies, fs, nil)
	second := browse.ComputeView(movies, fs, nil)
	again := append([]models.Movie{}, first...)
	browse.Sort(again, models.SortTitle)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, ids(first), ids(again))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(movies), "catalog order untouched")
}

func TestFeatured(t *testing.T) {
	_, ok := browse.Featured(nil)
	assert.False(t, ok)

	view := browse.ComputeView(fixture(), models.FilterState{Genre: "Drama"}, nil)
	best, ok := browse.Featured(view)
	require.True(t, ok)
	assert.Equal(t, 1, best.ID, "first of the tied 8.3 ratings wins")
}
