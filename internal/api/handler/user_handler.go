package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ideawall/ideawall/internal/core/ports"
)

// UserHandler exposes profile management and user lookup.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfile handles PATCH /v1/users/me. Usernames are immutable and
// cannot appear in the payload.
//
// @Summary      Edit the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), username, ports.UpdateProfileInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteAccount handles DELETE /v1/users/me — removes the caller's identity,
// ideas, follow requests, and relationship edges.
//
// @Summary      Delete the caller's account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/me [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), username); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET /v1/users?q= — username substring search.
//
// @Summary      Search users by username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Substring to match"
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) Search(c echo.Context) error {
	if _, err := ctxUsername(c); err != nil {
		return err
	}

	users, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// ListAll handles GET /v1/admin/users — the admin-only full listing.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *UserHandler) ListAll(c echo.Context) error {
	users, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}
