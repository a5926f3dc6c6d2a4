package models

import "strings"

// SortKey selects the ordering applied to the filtered view.
type SortKey string

const (
	SortNone   SortKey = ""
	SortRating SortKey = "rating"
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
)

var validSorts = map[SortKey]bool{
	SortNone:   true,
	SortRating: true,
	SortNewest: true,
	SortOldest: true,
	SortTitle:  true,
}

// ParseSortKey maps a wire value to a SortKey. Unknown values mean no sort.
func ParseSortKey(s string) SortKey {
	k := SortKey(s)
	if !validSorts[k] {
		return SortNone
	}
	return k
}

// FilterState is the user's current browse constraints.
// Empty strings leave the corresponding field unconstrained.
type FilterState struct {
	Search        string  `json:"search"`
	Genre         string  `json:"genre"`
	Actor         string  `json:"actor"`
	Director      string  `json:"director"`
	Sort          SortKey `json:"sort"`
	WatchlistOnly bool    `json:"watchlist_only"`
}

// Query is the lowercased search text used for title matching. Whitespace
// is significant.
func (f FilterState) Query() string {
	return strings.ToLower(f.Search)
}

// Validate normalizes values that did not come from a known option.
func (f *FilterState) Validate() {
	f.Sort = ParseSortKey(string(f.Sort))
}

// FilterPatch is a partial update to FilterState; nil fields are left alone.
type FilterPatch struct {
	Search        *string `json:"search"`
	Genre         *string `json:"genre"`
	Actor         *string `json:"actor"`
	Director      *string `json:"director"`
	Sort          *string `json:"sort"`
	WatchlistOnly *bool   `json:"watchlist_only"`
}

// Apply writes the non-nil fields of p onto f.
func (p FilterPatch) Apply(f *FilterState) {
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Actor != nil {
		f.Actor = *p.Actor
	}
	if p.Director != nil {
		f.Director = *p.Director
	}
	if p.Sort != nil {
		f.Sort = ParseSortKey(*p.Sort)
	}
	if p.WatchlistOnly != nil {
		f.WatchlistOnly = *p.WatchlistOnly
	}
}
