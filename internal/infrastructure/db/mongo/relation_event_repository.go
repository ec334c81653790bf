package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

const relationEventsCollection = "relation_events"

// RelationEventRepository persists the relationship audit trail.
type RelationEventRepository struct {
	coll *mongo.Collection
}

func NewRelationEventRepository(db *mongo.Database) ports.RelationEventRepository {
	return &RelationEventRepository{coll: db.Collection(relationEventsCollection)}
}

func (r *RelationEventRepository) Insert(ctx context.Context, event *domain.RelationEvent) error {
	doc := bson.M{
		"actor":        event.Actor,
		"target":       event.Target,
		"action":       string(event.Action),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert relation event: %w", err)
	}
	return nil
}

func (r *RelationEventRepository) ListByActor(ctx context.Context, actor string, limit int) ([]domain.RelationEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, bson.M{"actor": actor}, opts)
	if err != nil {
		return nil, fmt.Errorf("list relation events: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.RelationEvent{}
	for cur.Next(ctx) {
		var event domain.RelationEvent
		if err := cur.Decode(&event); err != nil {
			return nil, fmt.Errorf("decode relation event: %w", err)
		}
		out = append(out, event)
	}
	return out, cur.Err()
}
