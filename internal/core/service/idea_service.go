package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// IdeaService implements the content lifecycle. Every mutation is scoped to
// the owning identity at the repository level.
type IdeaService struct {
	repo   ports.IdeaRepository
	logger zerolog.Logger
}

func NewIdeaService(repo ports.IdeaRepository, logger zerolog.Logger) *IdeaService {
	return &IdeaService{repo: repo, logger: logger}
}

// Create publishes a new idea. Visibility defaults to public when empty.
func (s *IdeaService) Create(ctx context.Context, input ports.CreateIdeaInput) (*domain.Idea, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	if utf8.RuneCountInString(text) > domain.MaxIdeaLength {
		return nil, domain.ErrTextTooLong
	}
	visibility, err := domain.ParseVisibility(input.Visibility)
	if err != nil {
		return nil, err
	}

	idea, err := s.repo.Insert(ctx, &domain.Idea{
		Author:     input.Author,
		Text:       text,
		Visibility: visibility,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author", input.Author).Msg("failed to create idea")
		return nil, fmt.Errorf("create idea: %w", err)
	}

	s.logger.Info().Str("author", input.Author).Str("id", idea.ID).Str("visibility", string(visibility)).Msg("idea created")
	return idea, nil
}

// Update edits an idea's text and/or visibility. Ownership is part of the
// repository lookup predicate, so a non-owner receives the same not-found
// as a non-existent id.
func (s *IdeaService) Update(ctx context.Context, input ports.UpdateIdeaInput) (*domain.Idea, error) {
	update := ports.IdeaUpdate{}
	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, domain.ErrEmptyText
		}
		if utf8.RuneCountInString(text) > domain.MaxIdeaLength {
			return nil, domain.ErrTextTooLong
		}
		update.Text = &text
	}
	if input.Visibility != nil {
		visibility, err := domain.ParseVisibility(*input.Visibility)
		if err != nil {
			return nil, err
		}
		update.Visibility = &visibility
	}

	idea, err := s.repo.Update(ctx, input.Author, input.ID, update)
	if err != nil {
		return nil, fmt.Errorf("update idea: %w", err)
	}
	return idea, nil
}

// Delete removes an idea under the same ownership-scoped predicate as Update.
func (s *IdeaService) Delete(ctx context.Context, author, id string) (*domain.Idea, error) {
	idea, err := s.repo.Delete(ctx, author, id)
	if err != nil {
		return nil, fmt.Errorf("delete idea: %w", err)
	}
	s.logger.Info().Str("author", author).Str("id", id).Msg("idea deleted")
	return idea, nil
}
