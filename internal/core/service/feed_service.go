package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// FeedService composes the visibility policy with relationship state to
// answer the three feed query shapes. All results are ordered by created_at
// descending; ordering is delegated to the repository.
type FeedService struct {
	ideas   ports.IdeaRepository
	follows ports.FollowRepository
	logger  zerolog.Logger
}

func NewFeedService(ideas ports.IdeaRepository, follows ports.FollowRepository, logger zerolog.Logger) *FeedService {
	return &FeedService{ideas: ideas, follows: follows, logger: logger}
}

// AuthorFeed returns author's ideas as viewer may read them. The author sees
// everything including private; a follower sees public and protected;
// anyone else sees public only.
func (s *FeedService) AuthorFeed(ctx context.Context, viewer, author string) ([]domain.Idea, error) {
	if viewer == author {
		return s.ideas.ListByAuthor(ctx, author, nil)
	}

	follows, err := s.follows.HasEdge(ctx, viewer, author)
	if err != nil {
		return nil, fmt.Errorf("author feed: %w", err)
	}

	levels := []domain.Visibility{domain.VisibilityPublic}
	if domain.VisibilityProtected.ReadableBy(viewer, author, follows) {
		levels = append(levels, domain.VisibilityProtected)
	}
	return s.ideas.ListByAuthor(ctx, author, levels)
}

// OwnFeed returns viewer's own ideas, optionally narrowed to one visibility
// level. An empty result is a valid answer, not an error.
func (s *FeedService) OwnFeed(ctx context.Context, viewer, visibility string) ([]domain.Idea, error) {
	if visibility == "" {
		return s.ideas.ListByAuthor(ctx, viewer, nil)
	}
	level, err := domain.ParseVisibility(visibility)
	if err != nil {
		return nil, err
	}
	return s.ideas.ListByAuthor(ctx, viewer, []domain.Visibility{level})
}

// GlobalFeed returns the viewer's aggregated feed: public ideas by anyone,
// viewer's own ideas at any visibility, and protected ideas by followed
// authors. The repository evaluates the union in a single query so each idea
// appears exactly once.
func (s *FeedService) GlobalFeed(ctx context.Context, viewer string) ([]domain.Idea, error) {
	followed, err := s.follows.Followed(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("global feed: %w", err)
	}
	return s.ideas.GlobalFeed(ctx, viewer, followed)
}
