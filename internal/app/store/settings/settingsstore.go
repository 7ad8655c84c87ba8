// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the settings collection. Each (section, owner)
// pair has one document whose data field holds the section's struct.
type Store struct {
	c *mongo.Collection
}

type doc struct {
	Section   string    `bson:"section"`
	OwnerID   string    `bson:"owner_id"`
	Data      bson.Raw  `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("settings")}
}

// EnsureIndexes makes (section, owner_id) unique.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "section", Value: 1}, {Key: "owner_id", Value: 1}},
		Options: options.Index().SetName("uniq_settings_section_owner").SetUnique(true),
	})
	return err
}

// Load decodes the saved section for ownerID into dst. It returns false
// when nothing has been saved yet.
func (s *Store) Load(ctx context.Context, section, ownerID string, dst any) (bool, error) {
	var d doc
	err := s.c.FindOne(ctx, bson.M{"section": section, "owner_id": ownerID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := bson.Unmarshal(d.Data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Save upserts v as the section for ownerID.
func (s *Store) Save(ctx context.Context, section, ownerID string, v any) error {
	data, err := bson.Marshal(v)
	if err != nil {
		return err
	}
	filter := bson.M{"section": section, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"section":    section,
			"owner_id":   ownerID,
			"data":       bson.Raw(data),
			"updated_at": time.Now().UTC(),
		},
	}
	_, err = s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes a saved section. Used when a company or user goes away.
func (s *Store) Delete(ctx context.Context, section, ownerID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"section": section, "owner_id": ownerID})
	return err
}
