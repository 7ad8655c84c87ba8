// internal/app/store/notifications/store.go
package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/notifications"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists notifications in the notifications collection. Every
// query filters on user_id so one user can never touch another's
// documents.
type Store struct {
	c *mongo.Collection
}

var _ notifications.Repository = (*Store)(nil)

// New creates a new notifications store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// EnsureIndexes creates the indexes List and UnreadCount rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifications_user_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("idx_notifications_user_read"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// List returns userID's notifications, newest first.
func (s *Store) List(ctx context.Context, userID string, f notifications.Filter) ([]models.Notification, error) {
	filter := bson.M{"user_id": userID}
	if f.UnreadOnly {
		filter["read"] = false
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount counts userID's unread notifications.
func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	return int(n), err
}

// Insert stores a new notification.
func (s *Store) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.c.InsertOne(ctx, n)
	return err
}

// MarkRead marks one unread notification read.
func (s *Store) MarkRead(ctx context.Context, userID, id string, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkAllRead marks every unread notification of userID read.
func (s *Store) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
	)
	if err != nil {
		return 0, err
	}
	return int(res.ModifiedCount), nil
}

// Delete removes one of userID's notifications.
func (s *Store) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// DeleteMany removes those of ids that belong to userID.
func (s *Store) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

// Exists reports whether id belongs to userID.
func (s *Store) Exists(ctx context.Context, userID, id string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "user_id": userID}, options.Count().SetLimit(1))
	return n > 0, err
}
