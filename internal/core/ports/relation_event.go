package ports

import (
	"context"
	"time"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// RelationEventInput is the DTO handed to the audit dispatcher whenever a
// relationship mutation commits.
type RelationEventInput struct {
	Actor     string
	Target    string
	Action    domain.RelationAction
	Timestamp time.Time
}

// RelationEventService processes relationship audit events.
type RelationEventService interface {
	Process(ctx context.Context, event RelationEventInput) error
}

// RelationEventRepository persists events to the relation_events audit
// collection.
type RelationEventRepository interface {
	Insert(ctx context.Context, event *domain.RelationEvent) error
	// ListByActor returns the newest events first, capped at limit.
	ListByActor(ctx context.Context, actor string, limit int) ([]domain.RelationEvent, error)
}
