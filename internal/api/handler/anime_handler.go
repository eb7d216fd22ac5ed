package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animeshelf/animes-api/internal/api/metrics"
	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// AnimeHandler maps the /animes routes onto the anime service.
type AnimeHandler struct {
	service ports.AnimeService
}

func NewAnimeHandler(service ports.AnimeService) *AnimeHandler {
	return &AnimeHandler{service: service}
}

// List handles GET /animes.
//
// @Summary      List animes
// @Tags         animes
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   animeResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /animes [get]
func (h *AnimeHandler) List(c echo.Context) error {
	animes, err := h.service.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResponses(animes))
}

// Get handles GET /animes/:id.
//
// @Summary      Get an anime by id
// @Tags         animes
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Anime id"
// @Success      200  {object}  animeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /animes/{id} [get]
func (h *AnimeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	anime, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResponse(*anime))
}

// Create handles POST /animes.
//
// @Summary      Create an anime
// @Tags         animes
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      animeRequest  true  "Anime to create"
// @Success      201   {object}  animeResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /animes [post]
func (h *AnimeHandler) Create(c echo.Context) error {
	var req animeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	saved, err := h.service.Save(c.Request().Context(), domain.Anime{Name: req.Name})
	if err != nil {
		return err
	}
	metrics.AnimesCreatedTotal.WithLabelValues("single").Inc()
	return c.JSON(http.StatusCreated, toResponse(*saved))
}

// CreateBatch handles POST /animes/batch. Every element is validated before
// anything is written.
//
// @Summary      Create several animes
// @Tags         animes
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      []animeRequest  true  "Animes to create"
// @Success      201   {array}   animeResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /animes/batch [post]
func (h *AnimeHandler) CreateBatch(c echo.Context) error {
	var items []animeRequest
	if err := c.Bind(&items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&batchRequest{Items: items}); err != nil {
		metrics.BatchRejectionsTotal.Inc()
		return err
	}

	animes := make([]domain.Anime, len(items))
	for i, item := range items {
		animes[i] = domain.Anime{Name: item.Name}
	}
	saved, err := h.service.SaveAll(c.Request().Context(), animes)
	if err != nil {
		return err
	}
	metrics.AnimesCreatedTotal.WithLabelValues("batch").Add(float64(len(saved)))
	return c.JSON(http.StatusCreated, toResponses(saved))
}

// Update handles PUT /animes/:id. The body is validated before the record
// is looked up.
//
// @Summary      Replace an anime
// @Tags         animes
// @Accept       json
// @Security     BasicAuth
// @Param        id    path  int           true  "Anime id"
// @Param        body  body  animeRequest  true  "Replacement"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /animes/{id} [put]
func (h *AnimeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req animeRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), domain.Anime{ID: id, Name: req.Name}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /animes/:id. Unknown ids still answer 204.
//
// @Summary      Delete an anime
// @Tags         animes
// @Security     BasicAuth
// @Param        id   path  int  true  "Anime id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /animes/{id} [delete]
func (h *AnimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.AnimesDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func toResponse(a domain.Anime) animeResponse {
	return animeResponse{ID: a.ID, Name: a.Name}
}

func toResponses(animes []domain.Anime) []animeResponse {
	out := make([]animeResponse, len(animes))
	for i, a := range animes {
		out[i] = toResponse(a)
	}
	return out
}
