package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-browser/internal/catalog"
	"movie-discovery-browser/internal/models"
)

const sample = `[
  // classics first
  {"id": 1, "title": "Heat", "year": 1995, "genres": ["Crime", "Drama"], "actors": ["Al Pacino", "Robert De Niro"], "director": "Michael Mann", "rating": 8.3},
  {"id": 2, "title": "Alien", "year": 1979, "genres": ["Horror", "Sci-Fi"], "actors": ["Sigourney Weaver"], "director": "Ridley Scott"},
  {"id": 3, "title": "Collateral", "year": 2004, "genres": ["Crime"], "director": "Michael Mann", "rating": 7.5},
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileWithComments(t *testing.T) {
	store, err := catalog.Load(context.Background(), writeCatalog(t, sample))
	require.NoError(t, err)

	require.Equal(t, 3, store.Len())
	alien, ok := store.FindByID(2)
	require.True(t, ok)
	assert.Equal(t, "Alien", alien.Title)
	assert.Zero(t, alien.Rating)

	collateral, _ := store.FindByID(3)
	assert.NotNil(t, collateral.Actors, "missing actors normalize to an empty list")
	assert.Empty(t, collateral.Actors)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"malformed payload", writeCatalog(t, `{"id": 1`)},
		{"not a list", writeCatalog(t, `{"id": 1}`)},
		{"null payload", writeCatalog(t, `null`)},
		{"duplicate ids", writeCatalog(t, `[{"id": 1, "title": "A"}, {"id": 1, "title": "B"}]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Load(context.Background(), tt.source)
			require.Error(t, err)
			assert.True(t, errors.Is(err, catalog.ErrLoad), "got %v", err)
		})
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	t.Cleanup(server.Close)

	store, err := catalog.Load(context.Background(), server.URL+"/movies.json")
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	_, err = catalog.Load(context.Background(), server.URL+"/missing.json")
	require.ErrorIs(t, err, catalog.ErrLoad)
}

func TestAllReturnsCopies(t *testing.T) {
	store, err := catalog.New([]models.Movie{{ID: 1, Title: "Heat", Genres: []string{"Crime"}}})
	require.NoError(t, err)

	all := store.All()
	all[0].Title = "changed"
	all[0].Genres[0] = "changed"

	heat, _ := store.FindByID(1)
	assert.Equal(t, "Heat", heat.Title)
	assert.Equal(t, []string{"Crime"}, heat.Genres)
}

func TestEnrich(t *testing.T) {
	store, err := catalog.New([]models.Movie{{ID: 1, Title: "Heat", Overview: "old"}})
	require.NoError(t, err)

	assert.True(t, store.Enrich(1, "https://img/heat.jpg", ""))
	assert.False(t, store.Enrich(99, "x", "y"))

	heat, _ := store.FindByID(1)
	assert.Equal(t, "https://img/heat.jpg", heat.Poster)
	assert.Equal(t, "old", heat.Overview, "empty overview keeps the prior value")
}

func TestFacets(t *testing.T) {
	movies, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)
	store, err := catalog.New(movies)
	require.NoError(t, err)

	want := models.Facets{
		Genres:    []string{"Crime", "Drama", "Horror", "Sci-Fi"},
		Actors:    []string{"Al Pacino", "Robert De Niro", "Sigourney Weaver"},
		Directors: []string{"Michael Mann", "Ridley Scott"},
	}
	if diff := cmp.Diff(want, store.Facets()); diff != "" {
		t.Fatalf("facets mismatch (-want +got):\n%s", diff)
	}
}
