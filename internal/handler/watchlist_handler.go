package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-browser/internal/service"
)

// WatchlistHandler handles the watchlist routes.
type WatchlistHandler struct {
	svc    *service.BrowserService
	browse *BrowserHandler
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(svc *service.BrowserService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc, browse: NewBrowserHandler(svc)}
}

// List returns the saved movies in the order they were added.
// @Summary List watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) List(c fiber.Ctx) error {
	list, err := h.svc.Watchlist(c.Context())
	if err != nil {
		return h.browse.fail(c, err)
	}
	return c.JSON(fiber.Map{"movies": list, "total": len(list)})
}

// Toggle adds or removes the selected movie.
// @Summary Toggle selected movie in watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /watchlist/toggle [post]
func (h *WatchlistHandler) Toggle(c fiber.Ctx) error {
	detail, err := h.svc.ToggleWatchlist(c.Context())
	if err != nil {
		return h.browse.fail(c, err)
	}
	return c.JSON(detail)
}

// ToggleView switches the list between the whole catalog and saved movies.
// @Summary Toggle watchlist-only view
// @Tags watchlist
// @Produce json
// @Success 200 {object} models.ViewResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /watchlist/view/toggle [post]
func (h *WatchlistHandler) ToggleView(c fiber.Ctx) error {
	view, err := h.svc.ToggleWatchlistOnly(c.Context())
	if err != nil {
		return h.browse.fail(c, err)
	}
	return c.JSON(view)
}
