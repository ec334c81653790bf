package handler

import (
	"time"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Users ---

type userResponse struct {
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toUserListResponse(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

type updateProfileRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// --- Follow workflow ---

type followRequestBody struct {
	// Username of the account to follow.
	Username string `json:"username" validate:"required"`
}

type followRespondBody struct {
	Username string `json:"username" validate:"required"`
	Status   string `json:"status"   validate:"required,oneof=accepted rejected"`
}

type followRequestResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFollowRequestResponse(r *domain.FollowRequest) followRequestResponse {
	return followRequestResponse{
		From:      r.From,
		To:        r.To,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toFollowRequestListResponse(reqs []domain.FollowRequest) []followRequestResponse {
	out := make([]followRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = toFollowRequestResponse(&reqs[i])
	}
	return out
}

type usernamesResponse struct {
	Usernames []string `json:"usernames"`
}

// --- Ideas ---

type createIdeaRequest struct {
	Text       string `json:"text"       validate:"required,max=150"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public protected private"`
}

type updateIdeaRequest struct {
	Text       *string `json:"text"       validate:"omitempty,max=150"`
	Visibility *string `json:"visibility" validate:"omitempty,oneof=public protected private"`
}

type ideaResponse struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

func toIdeaResponse(i *domain.Idea) ideaResponse {
	return ideaResponse{
		ID:         i.ID,
		Author:     i.Author,
		Text:       i.Text,
		Visibility: string(i.Visibility),
		CreatedAt:  i.CreatedAt.UTC(),
	}
}

func toIdeaListResponse(ideas []domain.Idea) []ideaResponse {
	out := make([]ideaResponse, len(ideas))
	for i := range ideas {
		out[i] = toIdeaResponse(&ideas[i])
	}
	return out
}
