package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ideawall/ideawall/internal/core/domain"
)

const (
	requestsCollection = "follow_requests"
	edgesCollection    = "follow_edges"
)

// FollowRepository persists follow requests and follow edges. A partial
// unique index keeps at most one pending request per (from, to) pair, and a
// unique index keeps at most one edge per (follower, followed) pair; both
// back the concurrency contract the service relies on.
type FollowRepository struct {
	client   *mongo.Client
	requests *mongo.Collection
	edges    *mongo.Collection
}

func NewFollowRepository(client *mongo.Client, db *mongo.Database) *FollowRepository {
	return &FollowRepository{
		client:   client,
		requests: db.Collection(requestsCollection),
		edges:    db.Collection(edgesCollection),
	}
}

type followRequestDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	From      string             `bson:"from"`
	To        string             `bson:"to"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *followRequestDoc) toDomain() *domain.FollowRequest {
	return &domain.FollowRequest{
		ID:        d.ID.Hex(),
		From:      d.From,
		To:        d.To,
		Status:    domain.RequestStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *FollowRepository) InsertRequest(ctx context.Context, req *domain.FollowRequest) (*domain.FollowRequest, error) {
	doc := followRequestDoc{
		From:      req.From,
		To:        req.To,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt.UTC(),
		UpdatedAt: req.UpdatedAt.UTC(),
	}

	res, err := r.requests.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("insert follow request: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindRequest returns the newest request for the pair regardless of status.
func (r *FollowRepository) FindRequest(ctx context.Context, from, to string) (*domain.FollowRequest, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var doc followRequestDoc
	err := r.requests.FindOne(ctx, bson.M{"from": from, "to": to}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find follow request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FollowRepository) ListRequests(ctx context.Context, to string, status domain.RequestStatus) ([]domain.FollowRequest, error) {
	filter := bson.M{"to": to}
	if status != "" {
		filter["status"] = string(status)
	}

	cur, err := r.requests.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list follow requests: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.FollowRequest{}
	for cur.Next(ctx) {
		var doc followRequestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode follow request: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cur.Err()
}

// Accept settles the pending request and inserts the follow edge in one
// transaction. The pending filter on the update makes concurrent settles
// race to exactly one winner; losers see ErrRequestNotFound.
func (r *FollowRepository) Accept(ctx context.Context, from, to string) (*domain.FollowRequest, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		doc, err := r.settlePending(sc, from, to, domain.StatusAccepted)
		if err != nil {
			return nil, err
		}
		_, err = r.edges.InsertOne(sc, bson.M{
			"follower":   from,
			"followed":   to,
			"created_at": time.Now().UTC(),
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrEdgeExists
			}
			return nil, fmt.Errorf("insert follow edge: %w", err)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*followRequestDoc).toDomain(), nil
}

func (r *FollowRepository) Reject(ctx context.Context, from, to string) (*domain.FollowRequest, error) {
	doc, err := r.settlePending(ctx, from, to, domain.StatusRejected)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *FollowRepository) settlePending(ctx context.Context, from, to string, status domain.RequestStatus) (*followRequestDoc, error) {
	filter := bson.M{"from": from, "to": to, "status": string(domain.StatusPending)}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc followRequestDoc
	if err := r.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("settle follow request: %w", err)
	}
	return &doc, nil
}

func (r *FollowRepository) Followers(ctx context.Context, owner string) ([]string, error) {
	return r.edgeUsernames(ctx, bson.M{"followed": owner}, "follower")
}

func (r *FollowRepository) Followed(ctx context.Context, owner string) ([]string, error) {
	return r.edgeUsernames(ctx, bson.M{"follower": owner}, "followed")
}

func (r *FollowRepository) edgeUsernames(ctx context.Context, filter bson.M, field string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: 1}})
	cur, err := r.edges.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list follow edges: %w", err)
	}
	defer cur.Close(ctx)

	out := []string{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode follow edge: %w", err)
		}
		if name, ok := doc[field].(string); ok {
			out = append(out, name)
		}
	}
	return out, cur.Err()
}

func (r *FollowRepository) HasEdge(ctx context.Context, follower, followed string) (bool, error) {
	err := r.edges.FindOne(ctx, bson.M{"follower": follower, "followed": followed}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find follow edge: %w", err)
	}
	return true, nil
}

func (r *FollowRepository) DeleteEdge(ctx context.Context, follower, followed string) error {
	_, err := r.edges.DeleteOne(ctx, bson.M{"follower": follower, "followed": followed})
	if err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	return nil
}

func (r *FollowRepository) DeleteAllForUser(ctx context.Context, username string) error {
	either := bson.M{"$or": []bson.M{{"from": username}, {"to": username}}}
	if _, err := r.requests.DeleteMany(ctx, either); err != nil {
		return fmt.Errorf("delete follow requests: %w", err)
	}
	edgeEither := bson.M{"$or": []bson.M{{"follower": username}, {"followed": username}}}
	if _, err := r.edges.DeleteMany(ctx, edgeEither); err != nil {
		return fmt.Errorf("delete follow edges: %w", err)
	}
	return nil
}

// EnsureIndexes creates the uniqueness constraints the repository contract
// depends on, plus the listing indexes.
func (r *FollowRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.requests.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusPending)}),
		},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("request indexes: %w", err)
	}

	_, err = r.edges.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "followed", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "followed", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("edge indexes: %w", err)
	}
	return nil
}
