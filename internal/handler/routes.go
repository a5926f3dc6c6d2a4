package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API under /api/v1 and the metrics endpoint.
func RegisterRoutes(app fiber.Router, h *BrowserHandler, wh *WatchlistHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")
	api.Get("/health", h.Health)
	api.Get("/view", h.GetView)
	api.Get("/facets", h.GetFacets)
	api.Patch("/state", h.PatchState)
	api.Post("/state/restore", h.RestoreState)
	api.Post("/genres/:genre/toggle", h.ToggleGenre)
	api.Get("/movies/:id", h.SelectMovie)
	api.Get("/selection", h.GetSelection)
	api.Delete("/selection", h.ClearSelection)
	api.Post("/random", h.RandomPick)
	api.Post("/surprise", h.SurpriseMe)

	api.Get("/watchlist", wh.List)
	api.Post("/watchlist/toggle", wh.Toggle)
	api.Post("/watchlist/view/toggle", wh.ToggleView)
}
