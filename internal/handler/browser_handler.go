package handler

import (
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-browser/internal/models"
	"movie-discovery-browser/internal/service"
	"movie-discovery-browser/internal/watchlist"
)

// BrowserHandler handles HTTP requests for browsing the catalog.
type BrowserHandler struct {
	svc *service.BrowserService
}

// NewBrowserHandler creates a new BrowserHandler.
func NewBrowserHandler(svc *service.BrowserService) *BrowserHandler {
	return &BrowserHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *BrowserHandler) Health(c fiber.Ctx) error {
	status, _ := h.svc.Status()
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-browser",
		"catalog": string(status),
	})
}

// GetView returns the filtered list with insights and the featured movie.
// @Summary Current view
// @Tags browse
// @Produce json
// @Success 200 {object} models.ViewResponse
// @Failure 503 {object} ErrorResponse
// @Router /view [get]
func (h *BrowserHandler) GetView(c fiber.Ctx) error {
	view, err := h.svc.View(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// PatchState applies a partial filter update.
// @Summary Update filters
// @Tags browse
// @Accept json
// @Produce json
// @Param body body models.FilterPatch true "Fields to change"
// @Success 200 {object} models.ViewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /state [patch]
func (h *BrowserHandler) PatchState(c fiber.Ctx) error {
	var patch models.FilterPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	view, err := h.svc.Apply(c.Context(), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// RestoreState replaces filters and selection from the request query string.
// @Summary Restore state from a location query
// @Tags browse
// @Produce json
// @Param search query string false "Title search"
// @Param genre query string false "Genre"
// @Param actor query string false "Actor"
// @Param director query string false "Director"
// @Param sort query string false "Sort" Enums(rating,newest,oldest,title)
// @Param movieId query int false "Selected movie"
// @Success 200 {object} models.ViewResponse
// @Failure 503 {object} ErrorResponse
// @Router /state/restore [post]
func (h *BrowserHandler) RestoreState(c fiber.Ctx) error {
	raw := string(c.Request().URI().QueryString())
	view, err := h.svc.Restore(c.Context(), raw)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// ToggleGenre selects a genre, or clears it when it is already active.
// @Summary Toggle genre filter
// @Tags browse
// @Produce json
// @Param genre path string true "Genre"
// @Success 200 {object} models.ViewResponse
// @Failure 503 {object} ErrorResponse
// @Router /genres/{genre}/toggle [post]
func (h *BrowserHandler) ToggleGenre(c fiber.Ctx) error {
	genre, err := url.PathUnescape(c.Params("genre"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid genre"})
	}

	view, err := h.svc.ToggleGenre(c.Context(), genre)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// GetFacets returns the genre, actor, and director option lists.
// @Summary Filter options
// @Tags browse
// @Produce json
// @Success 200 {object} models.Facets
// @Failure 503 {object} ErrorResponse
// @Router /facets [get]
func (h *BrowserHandler) GetFacets(c fiber.Ctx) error {
	facets, err := h.svc.Facets()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(facets)
}

// SelectMovie selects a movie and returns its details and recommendations.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *BrowserHandler) SelectMovie(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	detail, err := h.svc.Select(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

// GetSelection returns the details of the selected movie.
// @Summary Current selection
// @Tags movies
// @Produce json
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Router /selection [get]
func (h *BrowserHandler) GetSelection(c fiber.Ctx) error {
	detail, err := h.svc.Selected(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

// ClearSelection closes the details view.
// @Summary Clear selection
// @Tags movies
// @Success 204
// @Router /selection [delete]
func (h *BrowserHandler) ClearSelection(c fiber.Ctx) error {
	if err := h.svc.ClearSelection(); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RandomPick selects a random movie from the whole catalog.
// @Summary Random movie
// @Tags movies
// @Produce json
// @Success 200 {object} models.MovieDetail
// @Router /random [post]
func (h *BrowserHandler) RandomPick(c fiber.Ctx) error {
	detail, err := h.svc.RandomPick(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

// SurpriseMe selects a random movie from the current view.
// @Summary Random movie from the view
// @Tags movies
// @Produce json
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Router /surprise [post]
func (h *BrowserHandler) SurpriseMe(c fiber.Ctx) error {
	detail, err := h.svc.SurpriseMe(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

// fail maps service errors onto HTTP responses.
func (h *BrowserHandler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotLoaded):
		status, loadErr := h.svc.Status()
		resp := ErrorResponse{Error: "catalog not loaded", Status: string(status)}
		if loadErr != nil {
			resp.Detail = loadErr.Error()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
	case errors.Is(err, service.ErrNoSelection):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "no movie selected"})
	case errors.Is(err, service.ErrEmptyView):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "no movies in view"})
	case errors.Is(err, watchlist.ErrPersist):
		slog.Error("watchlist persistence failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save watchlist"})
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
