package models

import (
	"strconv"
	"strings"
)

// Recommendation is a catalog movie scored against a target movie.
type Recommendation struct {
	Movie   Movie    `json:"movie"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	Reason  string   `json:"reason"`
}

// Explanation renders the reasons as a sentence for display.
func (r Recommendation) Explanation() string {
	if len(r.Reasons) == 0 {
		return "Recommended"
	}
	return "Recommended because it shares " + strings.Join(r.Reasons, " and ") + "."
}

// Count is a name with its number of occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Bucket is one bar of the rating histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Insights summarizes a view list.
type Insights struct {
	Total         int       `json:"total"`
	AverageRating float64   `json:"average_rating"`
	TopGenres     []Count   `json:"top_genres"`
	TopActor      *Count    `json:"top_actor"`
	TopDirector   *Count    `json:"top_director"`
	Histogram     [4]Bucket `json:"histogram"`
}

// AverageLabel formats the average rating the way the insights card shows it.
func (i Insights) AverageLabel() string {
	return strconv.FormatFloat(i.AverageRating, 'f', 2, 64)
}

// ViewResponse is everything the presentation needs to draw the list page.
type ViewResponse struct {
	State    FilterState `json:"state"`
	Movies   []Movie     `json:"movies"`
	Empty    bool        `json:"empty"`
	Featured *Movie      `json:"featured"`
	Insights Insights    `json:"insights"`
	Location string      `json:"location"`
	Selected int         `json:"selected_movie_id,omitempty"`
}
