package models

import "strings"

// Movie is a single catalog record.
//
// Poster and Overview start empty and are filled in by enrichment after the
// catalog is loaded; every other field is fixed for the process lifetime.
type Movie struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Genres   []string `json:"genres"`
	Actors   []string `json:"actors"`
	Director string   `json:"director"`
	Rating   float64  `json:"rating"`
	Poster   string   `json:"poster,omitempty"`
	Overview string   `json:"overview,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the catalog.
func (m Movie) Clone() Movie {
	c := m
	c.Genres = append([]string{}, m.Genres...)
	c.Actors = append([]string{}, m.Actors...)
	return c
}

// HasGenre reports whether g is one of the movie's genres.
func (m Movie) HasGenre(g string) bool {
	for _, x := range m.Genres {
		if x == g {
			return true
		}
	}
	return false
}

// HasActor reports whether a is in the cast list.
func (m Movie) HasActor(a string) bool {
	for _, x := range m.Actors {
		if x == a {
			return true
		}
	}
	return false
}

// DefaultFallbackPoster is shown when a movie has no poster URL.
const DefaultFallbackPoster = "poster-fallback.png"

// PosterOrFallback returns the movie's poster URL, or fallback when blank.
func PosterOrFallback(m Movie, fallback string) string {
	if url := strings.TrimSpace(m.Poster); url != "" {
		return url
	}
	return fallback
}

// MovieDetail is the response shape for a selected movie.
type MovieDetail struct {
	Movie           Movie            `json:"movie"`
	PosterURL       string           `json:"poster_url"`
	InWatchlist     bool             `json:"in_watchlist"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Facets are the option lists for the genre/actor/director controls.
type Facets struct {
	Genres    []string `json:"genres"`
	Actors    []string `json:"actors"`
	Directors []string `json:"directors"`
}
