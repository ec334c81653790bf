package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// IdeaUpdate carries the mutable idea fields. Nil means "leave unchanged".
type IdeaUpdate struct {
	Text       *string
	Visibility *domain.Visibility
}

// IdeaRepository defines persistence operations for ideas. All listings are
// ordered by created_at descending.
//
// Update and Delete fold ownership into the lookup predicate: a caller who
// does not own the idea gets domain.ErrIdeaNotFound, indistinguishable from
// a non-existent id.
type IdeaRepository interface {
	Insert(ctx context.Context, idea *domain.Idea) (*domain.Idea, error)
	Update(ctx context.Context, author, id string, update IdeaUpdate) (*domain.Idea, error)
	Delete(ctx context.Context, author, id string) (*domain.Idea, error)

	// ListByAuthor returns author's ideas restricted to the given visibility
	// levels; nil means no restriction.
	ListByAuthor(ctx context.Context, author string, visibilities []domain.Visibility) ([]domain.Idea, error)
	// GlobalFeed returns, without duplicates: every public idea, every idea
	// authored by viewer, and every protected idea authored by a username
	// in followed.
	GlobalFeed(ctx context.Context, viewer string, followed []string) ([]domain.Idea, error)

	// DeleteAllByAuthor removes every idea owned by author. Used when an
	// account is deleted.
	DeleteAllByAuthor(ctx context.Context, author string) error
}
