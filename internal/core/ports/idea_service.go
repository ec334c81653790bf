package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// CreateIdeaInput carries all data needed to publish an idea.
type CreateIdeaInput struct {
	Author string
	Text   string
	// Visibility is one of public, protected, private. Empty defaults to
	// public.
	Visibility string
}

// UpdateIdeaInput carries a partial idea edit. Nil fields are left unchanged.
type UpdateIdeaInput struct {
	Author     string
	ID         string
	Text       *string
	Visibility *string
}

// IdeaService is the content lifecycle: create, update, and delete of ideas,
// constrained to the owning identity.
type IdeaService interface {
	Create(ctx context.Context, input CreateIdeaInput) (*domain.Idea, error)
	Update(ctx context.Context, input UpdateIdeaInput) (*domain.Idea, error)
	Delete(ctx context.Context, author, id string) (*domain.Idea, error)
}

// FeedService composes the visibility policy with relationship state to
// produce per-viewer result sets, ordered by created_at descending.
type FeedService interface {
	// AuthorFeed returns author's ideas as seen by viewer: everything when
	// viewer is the author, public+protected when viewer follows the
	// author, public only otherwise.
	AuthorFeed(ctx context.Context, viewer, author string) ([]domain.Idea, error)
	// OwnFeed returns viewer's own ideas, optionally narrowed to one
	// visibility level ("" means all).
	OwnFeed(ctx context.Context, viewer, visibility string) ([]domain.Idea, error)
	// GlobalFeed returns the viewer's aggregated feed: public ideas by
	// anyone, the viewer's own ideas, and protected ideas by followed
	// authors, each idea exactly once.
	GlobalFeed(ctx context.Context, viewer string) ([]domain.Idea, error)
}
