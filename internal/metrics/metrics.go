// Package metrics defines the Prometheus collectors for the browser.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_browser_catalog_loads_total",
			Help: "Catalog load attempts by result",
		},
		[]string{"result"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movie_browser_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_browser_enrichment_lookups_total",
			Help: "Poster lookups by outcome (enriched, no_result, cached, failed)",
		},
		[]string{"outcome"},
	)

	WatchlistToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_browser_watchlist_toggles_total",
			Help: "Watchlist toggles by result (added, removed, failed)",
		},
		[]string{"result"},
	)
)
