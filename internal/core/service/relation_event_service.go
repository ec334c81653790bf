package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

type relationEventService struct {
	repo ports.RelationEventRepository
	log  zerolog.Logger
}

// NewRelationEventService returns a RelationEventService implementation that
// writes relationship mutations to the audit trail.
func NewRelationEventService(repo ports.RelationEventRepository, log zerolog.Logger) ports.RelationEventService {
	return &relationEventService{repo: repo, log: log}
}

// Process persists a single relationship audit event.
func (s *relationEventService) Process(ctx context.Context, in ports.RelationEventInput) error {
	event := &domain.RelationEvent{
		Actor:     in.Actor,
		Target:    in.Target,
		Action:    in.Action,
		Timestamp: in.Timestamp,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("process relation event: %w", err)
	}

	s.log.Debug().
		Str("actor", in.Actor).
		Str("target", in.Target).
		Str("action", string(in.Action)).
		Msg("relation event recorded")

	return nil
}
