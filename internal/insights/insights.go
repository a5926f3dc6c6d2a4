// Package insights computes summary statistics over a view list.
package insights

import (
	"sort"

	"movie-discovery-browser/internal/models"
)

// TopGenreCount is how many genres the summary lists.
const TopGenreCount = 3

// Histogram bucket labels. Ratings below 7.0 are not counted in any bucket.
var bucketLabels = [4]string{"7.0–7.9", "8.0–8.4", "8.5–8.9", "9.0+"}

// Aggregate summarizes view. It never mutates its input.
func Aggregate(view []models.Movie) models.Insights {
	out := models.Insights{
		Total:     len(view),
		TopGenres: []models.Count{},
	}
	for i, label := range bucketLabels {
		out.Histogram[i].Label = label
	}
	if len(view) == 0 {
		return out
	}

	genres := newCounter()
	actors := newCounter()
	directors := newCounter()

	var sum float64
	for _, m := range view {
		sum += m.Rating
		for _, g := range m.Genres {
			genres.add(g)
		}
		for _, a := range m.Actors {
			actors.add(a)
		}
		if m.Director != "" {
			directors.add(m.Director)
		}
		if b := bucket(m.Rating); b >= 0 {
			out.Histogram[b].Count++
		}
	}

	out.AverageRating = sum / float64(len(view))
	out.TopGenres = genres.top(TopGenreCount)
	if top := actors.top(1); len(top) == 1 {
		out.TopActor = &top[0]
	}
	if top := directors.top(1); len(top) == 1 {
		out.TopDirector = &top[0]
	}
	return out
}

func bucket(rating float64) int {
	switch {
	case rating >= 9.0:
		return 3
	case rating >= 8.5:
		return 2
	case rating >= 8.0:
		return 1
	case rating >= 7.0:
		return 0
	default:
		return -1
	}
}

// counter tallies names and remembers first-seen order for tie breaks.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) top(n int) []models.Count {
	list := make([]models.Count, len(c.order))
	for i, name := range c.order {
		list[i] = models.Count{Name: name, Count: c.counts[name]}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Count > list[j].Count
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
