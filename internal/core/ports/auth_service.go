package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// AuthService implements registration and login. Registration returns a
// signed token alongside the created user so a fresh account is immediately
// usable.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// UpdateProfileInput carries the caller-editable profile fields. Nil means
// "leave unchanged".
type UpdateProfileInput struct {
	Email    *string
	Password *string
}

// UserService defines profile operations on the caller's own identity plus
// the lookup queries every authenticated user may run. ListAll is reserved
// for admins; the transport layer enforces that.
type UserService interface {
	UpdateProfile(ctx context.Context, username string, input UpdateProfileInput) (*domain.User, error)
	// DeleteAccount removes the identity together with its ideas, follow
	// requests, and relationship edges.
	DeleteAccount(ctx context.Context, username string) error
	Search(ctx context.Context, q string) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}
