// Package recommend ranks catalog movies by similarity to a target movie.
package recommend

import (
	"fmt"
	"sort"

	"movie-discovery-browser/internal/models"
)

// DefaultCount is the number of recommendations returned when count < 0.
const DefaultCount = 5

// Score weights.
const (
	directorWeight = 3.0
	genreWeight    = 2.0
	actorWeight    = 1.5
	ratingDivisor  = 10.0
)

// Recommend scores every movie except target and returns the best count,
// highest score first. Equal scores keep catalog order. A zero count yields
// an empty list.
func Recommend(movies []models.Movie, target models.Movie, count int) []models.Recommendation {
	if count < 0 {
		count = DefaultCount
	}
	if count == 0 {
		return []models.Recommendation{}
	}

	targetGenres := toSet(target.Genres)
	targetActors := toSet(target.Actors)

	scored := make([]models.Recommendation, 0, len(movies))
	for _, m := range movies {
		if m.ID == target.ID {
			continue
		}
		scored = append(scored, score(m, target.Director, targetGenres, targetActors))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > count {
		scored = scored[:count]
	}
	return scored
}

func score(m models.Movie, director string, genres, actors map[string]bool) models.Recommendation {
	var total float64
	reasons := []string{}

	if m.Director == director {
		total += directorWeight
		reasons = append(reasons, "director")
	}

	sharedGenres := countShared(m.Genres, genres)
	total += float64(sharedGenres) * genreWeight
	if sharedGenres > 0 {
		reasons = append(reasons, plural(sharedGenres, "genre"))
	}

	sharedActors := countShared(m.Actors, actors)
	total += float64(sharedActors) * actorWeight
	if sharedActors > 0 {
		reasons = append(reasons, plural(sharedActors, "actor"))
	}

	total += m.Rating / ratingDivisor

	rec := models.Recommendation{
		Movie:   m,
		Score:   total,
		Reasons: reasons,
	}
	rec.Reason = rec.Explanation()
	return rec
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func countShared(values []string, set map[string]bool) int {
	n := 0
	for _, v := range values {
		if set[v] {
			n++
		}
	}
	return n
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
