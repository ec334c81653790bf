package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ideawall/ideawall/internal/api/metrics"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// FollowHandler exposes the follow-request workflow and the relationship
// listings derived from it.
type FollowHandler struct {
	service ports.FollowService
}

func NewFollowHandler(service ports.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// Request handles POST /v1/follow/requests — files a follow request from the
// caller to the named user.
//
// @Summary      Create a follow request
// @Tags         follow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      followRequestBody  true  "Target username"
// @Success      200   {object}  followRequestResponse  "Request already existed; returned unchanged"
// @Success      201   {object}  followRequestResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/follow/requests [post]
func (h *FollowHandler) Request(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req followRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.CreateRequest(c.Request().Context(), username, req.Username)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	outcome := "created"
	if result.AlreadyExisted {
		status = http.StatusOK
		outcome = "replayed"
	}
	metrics.FollowRequestsTotal.WithLabelValues(outcome).Inc()

	return c.JSON(status, toFollowRequestResponse(result.Request))
}

// Respond handles POST /v1/follow/requests/respond — the addressee settles a
// pending request. Settling an already settled request returns it unchanged.
//
// @Summary      Accept or reject a follow request
// @Tags         follow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      followRespondBody  true  "Requester username and decision"
// @Success      200   {object}  followRequestResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/follow/requests/respond [post]
func (h *FollowHandler) Respond(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req followRespondBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	settled, err := h.service.Respond(c.Request().Context(), username, req.Username, req.Status)
	if err != nil {
		return err
	}
	metrics.FollowResponsesTotal.WithLabelValues(string(settled.Status)).Inc()

	return c.JSON(http.StatusOK, toFollowRequestResponse(settled))
}

// ListRequests handles GET /v1/follow/requests — requests addressed to the
// caller, optionally filtered by ?status=.
//
// @Summary      List follow requests addressed to the caller
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, accepted, rejected)"
// @Success      200     {array}   followRequestResponse
// @Failure      401     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/follow/requests [get]
func (h *FollowHandler) ListRequests(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	requests, err := h.service.ListRequests(c.Request().Context(), username, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFollowRequestListResponse(requests))
}

// Followers handles GET /v1/followers.
//
// @Summary      List the caller's followers
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usernamesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/followers [get]
func (h *FollowHandler) Followers(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	usernames, err := h.service.Followers(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernamesResponse{Usernames: usernames})
}

// Followed handles GET /v1/followed.
//
// @Summary      List the accounts the caller follows
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usernamesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/followed [get]
func (h *FollowHandler) Followed(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	usernames, err := h.service.Followed(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernamesResponse{Usernames: usernames})
}

// RemoveFollower handles DELETE /v1/followers/:username — revokes the named
// follower's access and returns the caller's updated follower set.
//
// @Summary      Remove a follower
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Follower to remove"
// @Success      200       {object}  usernamesResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/followers/{username} [delete]
func (h *FollowHandler) RemoveFollower(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	usernames, err := h.service.RemoveFollower(c.Request().Context(), username, c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernamesResponse{Usernames: usernames})
}

// RemoveFollowed handles DELETE /v1/followed/:username — the caller stops
// following the named account and gets the updated followed set back.
//
// @Summary      Stop following an account
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Account to stop following"
// @Success      200       {object}  usernamesResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/followed/{username} [delete]
func (h *FollowHandler) RemoveFollowed(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	usernames, err := h.service.RemoveFollowed(c.Request().Context(), username, c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usernamesResponse{Usernames: usernames})
}
