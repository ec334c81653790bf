package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// UserUpdate carries the mutable profile fields. Nil means "leave unchanged".
// Username itself is immutable: every relationship and ownership reference
// keys on it.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
}

// UserRepository defines persistence operations for registered identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Search returns users whose username contains q (case-insensitive).
	Search(ctx context.Context, q string) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, username string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}
