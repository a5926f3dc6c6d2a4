// Package urlstate maps browse state to and from a shareable query string.
package urlstate

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"movie-discovery-browser/internal/models"
)

// Query keys.
const (
	KeySearch   = "search"
	KeyGenre    = "genre"
	KeyActor    = "actor"
	KeyDirector = "director"
	KeySort     = "sort"
	KeyMovieID  = "movieId"
)

// Serialize encodes fs and the selected movie id. Fields holding their
// default value are left out, and keys are always written in the same order.
// WatchlistOnly is view-local and never serialized.
func Serialize(fs models.FilterState, selectedID int) string {
	var b strings.Builder
	add := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add(KeySearch, fs.Search)
	add(KeyGenre, fs.Genre)
	add(KeyActor, fs.Actor)
	add(KeyDirector, fs.Director)
	add(KeySort, string(models.ParseSortKey(string(fs.Sort))))
	if selectedID > 0 {
		add(KeyMovieID, strconv.Itoa(selectedID))
	}
	return b.String()
}

// Deserialize decodes a query string, with or without its leading "?".
// Missing or unusable values fall back to defaults; selectedID is 0 when no
// valid movie id is present.
func Deserialize(raw string) (fs models.FilterState, selectedID int) {
	raw = strings.TrimPrefix(raw, "?")
	values, err := url.ParseQuery(raw)
	if err != nil {
		// ParseQuery keeps every pair it could decode.
		slog.Debug("ignoring malformed query pairs", "query", raw, "error", err)
	}

	fs = models.FilterState{
		Search:   values.Get(KeySearch),
		Genre:    values.Get(KeyGenre),
		Actor:    values.Get(KeyActor),
		Director: values.Get(KeyDirector),
		Sort:     models.ParseSortKey(values.Get(KeySort)),
	}

	if id, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyMovieID))); err == nil && id > 0 {
		selectedID = id
	}
	return fs, selectedID
}

// Location builds the replaceable address for the current state.
func Location(path string, fs models.FilterState, selectedID int) string {
	return path + "?" + Serialize(fs, selectedID)
}
