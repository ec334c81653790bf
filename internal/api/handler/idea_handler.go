package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ideawall/ideawall/internal/api/metrics"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// IdeaHandler exposes the content lifecycle. Ownership is enforced below the
// transport layer: every mutation is scoped to the authenticated author.
type IdeaHandler struct {
	service ports.IdeaService
}

func NewIdeaHandler(service ports.IdeaService) *IdeaHandler {
	return &IdeaHandler{service: service}
}

// Create handles POST /v1/ideas.
//
// @Summary      Publish an idea
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIdeaRequest  true  "Idea text and optional visibility"
// @Success      201   {object}  ideaResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/ideas [post]
func (h *IdeaHandler) Create(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req createIdeaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	idea, err := h.service.Create(c.Request().Context(), ports.CreateIdeaInput{
		Author:     username,
		Text:       req.Text,
		Visibility: req.Visibility,
	})
	if err != nil {
		return err
	}
	metrics.IdeasCreatedTotal.WithLabelValues(string(idea.Visibility)).Inc()

	return c.JSON(http.StatusCreated, toIdeaResponse(idea))
}

// Update handles PATCH /v1/ideas/:id. Only the author can edit; anyone else
// gets a 404.
//
// @Summary      Edit an idea
// @Tags         ideas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Idea id"
// @Param        body  body      updateIdeaRequest  true  "Fields to change"
// @Success      200   {object}  ideaResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/ideas/{id} [patch]
func (h *IdeaHandler) Update(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req updateIdeaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	idea, err := h.service.Update(c.Request().Context(), ports.UpdateIdeaInput{
		Author:     username,
		ID:         c.Param("id"),
		Text:       req.Text,
		Visibility: req.Visibility,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toIdeaResponse(idea))
}

// Delete handles DELETE /v1/ideas/:id under the same ownership rule as Update.
//
// @Summary      Delete an idea
// @Tags         ideas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Idea id"
// @Success      200  {object}  ideaResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/ideas/{id} [delete]
func (h *IdeaHandler) Delete(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	idea, err := h.service.Delete(c.Request().Context(), username, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdeaResponse(idea))
}
