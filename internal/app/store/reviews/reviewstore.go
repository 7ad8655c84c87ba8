// internal/app/store/reviews/reviewstore.go
package reviewstore

import (
	"context"
	"errors"

	"github.com/dalemusser/safetyapp/internal/app/reviews"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the reviews collection.
type Store struct {
	c *mongo.Collection
}

var _ reviews.Repository = (*Store)(nil)

// New creates a new reviews store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

// EnsureIndexes creates the contractor listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contractor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_reviews_contractor_created"),
		},
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}},
			Options: options.Index().SetName("idx_reviews_company"),
		},
	})
	return err
}

// Insert stores r, assigning an ID when it has none.
func (s *Store) Insert(ctx context.Context, r models.Review) (models.Review, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// Get returns one review or reviews.ErrNotFound.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var r models.Review
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Review{}, reviews.ErrNotFound
	}
	return r, err
}

// Update replaces the stored review.
func (s *Store) Update(ctx context.Context, r models.Review) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return reviews.ErrNotFound
	}
	return nil
}

// ListByContractor returns a contractor's reviews, newest first.
func (s *Store) ListByContractor(ctx context.Context, contractorID primitive.ObjectID, limit, offset int) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	cur, err := s.c.Find(ctx, bson.M{"contractor_id": contractorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
