package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ideawall/ideawall/internal/api/metrics"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// FeedHandler exposes the three feed shapes. Every response is filtered for
// the authenticated viewer before it leaves the service layer.
type FeedHandler struct {
	service ports.FeedService
}

func NewFeedHandler(service ports.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// Global handles GET /v1/feed — the viewer's aggregated feed.
//
// @Summary      Aggregated feed for the caller
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ideaResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/feed [get]
func (h *FeedHandler) Global(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	ideas, err := h.resolve("global", func() ([]ideaResponse, error) {
		out, err := h.service.GlobalFeed(c.Request().Context(), username)
		if err != nil {
			return nil, err
		}
		return toIdeaListResponse(out), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ideas)
}

// Own handles GET /v1/feed/mine — the caller's own ideas, optionally
// narrowed by ?visibility=.
//
// @Summary      The caller's own ideas
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        visibility  query     string  false  "Restrict to one level (public, protected, private)"
// @Success      200         {array}   ideaResponse
// @Failure      401         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/feed/mine [get]
func (h *FeedHandler) Own(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	ideas, err := h.resolve("own", func() ([]ideaResponse, error) {
		out, err := h.service.OwnFeed(c.Request().Context(), username, c.QueryParam("visibility"))
		if err != nil {
			return nil, err
		}
		return toIdeaListResponse(out), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ideas)
}

// Author handles GET /v1/feed/:username — the named author's ideas as the
// caller is allowed to see them.
//
// @Summary      An author's ideas, visibility-filtered for the caller
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Author username"
// @Success      200       {array}   ideaResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/feed/{username} [get]
func (h *FeedHandler) Author(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	ideas, err := h.resolve("author", func() ([]ideaResponse, error) {
		out, err := h.service.AuthorFeed(c.Request().Context(), username, c.Param("username"))
		if err != nil {
			return nil, err
		}
		return toIdeaListResponse(out), nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ideas)
}

func (h *FeedHandler) resolve(kind string, fn func() ([]ideaResponse, error)) ([]ideaResponse, error) {
	start := time.Now()
	out, err := fn()
	if err != nil {
		return nil, err
	}
	metrics.FeedRequestsTotal.WithLabelValues(kind).Inc()
	metrics.FeedResolveDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	return out, nil
}
