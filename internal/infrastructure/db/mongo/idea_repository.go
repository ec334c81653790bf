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
	"github.com/ideawall/ideawall/internal/core/ports"
)

const ideasCollection = "ideas"

type IdeaRepository struct {
	coll *mongo.Collection
}

func NewIdeaRepository(db *mongo.Database) *IdeaRepository {
	return &IdeaRepository{coll: db.Collection(ideasCollection)}
}

type ideaDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Author     string             `bson:"author"`
	Text       string             `bson:"text"`
	Visibility string             `bson:"visibility"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *ideaDoc) toDomain() *domain.Idea {
	return &domain.Idea{
		ID:         d.ID.Hex(),
		Author:     d.Author,
		Text:       d.Text,
		Visibility: domain.Visibility(d.Visibility),
		CreatedAt:  d.CreatedAt,
	}
}

func (r *IdeaRepository) Insert(ctx context.Context, idea *domain.Idea) (*domain.Idea, error) {
	doc := ideaDoc{
		Author:     idea.Author,
		Text:       idea.Text,
		Visibility: string(idea.Visibility),
		CreatedAt:  idea.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert idea: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ownerFilter folds ownership into the lookup, so a non-owner is
// indistinguishable from a missing id. A malformed id maps to not-found for
// the same reason.
func ownerFilter(author, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdeaNotFound
	}
	return bson.M{"_id": oid, "author": author}, nil
}

func (r *IdeaRepository) Update(ctx context.Context, author, id string, update ports.IdeaUpdate) (*domain.Idea, error) {
	filter, err := ownerFilter(author, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Text != nil {
		set["text"] = *update.Text
	}
	if update.Visibility != nil {
		set["visibility"] = string(*update.Visibility)
	}
	if len(set) == 0 {
		var doc ideaDoc
		if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrIdeaNotFound
			}
			return nil, fmt.Errorf("find idea: %w", err)
		}
		return doc.toDomain(), nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ideaDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, fmt.Errorf("update idea: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdeaRepository) Delete(ctx context.Context, author, id string) (*domain.Idea, error) {
	filter, err := ownerFilter(author, id)
	if err != nil {
		return nil, err
	}

	var doc ideaDoc
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, fmt.Errorf("delete idea: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdeaRepository) ListByAuthor(ctx context.Context, author string, visibilities []domain.Visibility) ([]domain.Idea, error) {
	filter := bson.M{"author": author}
	if visibilities != nil {
		levels := make([]string, 0, len(visibilities))
		for _, v := range visibilities {
			levels = append(levels, string(v))
		}
		filter["visibility"] = bson.M{"$in": levels}
	}
	return r.list(ctx, filter)
}

// GlobalFeed evaluates the readability union in a single query, so the
// result carries no duplicates by construction.
func (r *IdeaRepository) GlobalFeed(ctx context.Context, viewer string, followed []string) ([]domain.Idea, error) {
	if followed == nil {
		followed = []string{}
	}
	filter := bson.M{"$or": []bson.M{
		{"visibility": string(domain.VisibilityPublic)},
		{"author": viewer},
		{"author": bson.M{"$in": followed}, "visibility": string(domain.VisibilityProtected)},
	}}
	return r.list(ctx, filter)
}

func (r *IdeaRepository) list(ctx context.Context, filter bson.M) ([]domain.Idea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.Idea{}
	for cur.Next(ctx) {
		var doc ideaDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode idea: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cur.Err()
}

func (r *IdeaRepository) DeleteAllByAuthor(ctx context.Context, author string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"author": author}); err != nil {
		return fmt.Errorf("delete ideas: %w", err)
	}
	return nil
}

// EnsureIndexes creates the feed listing indexes.
func (r *IdeaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
