package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// UserService implements profile management and user lookup.
type UserService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	ideas   ports.IdeaRepository
	logger  zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	follows ports.FollowRepository,
	ideas ports.IdeaRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{users: users, follows: follows, ideas: ideas, logger: logger}
}

// UpdateProfile edits the caller's email and/or password. Usernames are
// immutable; relationship edges and idea ownership key on them.
func (s *UserService) UpdateProfile(ctx context.Context, username string, input ports.UpdateProfileInput) (*domain.User, error) {
	update := ports.UserUpdate{Email: input.Email}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	user, err := s.users.Update(ctx, username, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the identity along with its ideas, follow requests,
// and relationship edges in both directions.
func (s *UserService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.ideas.DeleteAllByAuthor(ctx, username); err != nil {
		return fmt.Errorf("delete account: ideas: %w", err)
	}
	if err := s.follows.DeleteAllForUser(ctx, username); err != nil {
		return fmt.Errorf("delete account: relations: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("account deleted")
	return nil
}

func (s *UserService) Search(ctx context.Context, q string) ([]domain.User, error) {
	if q == "" {
		return []domain.User{}, nil
	}
	return s.users.Search(ctx, q)
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}
