package seed

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Options controls Run.
type Options struct {
	Drop     bool   // drop the seeded collections first
	Password string // plain password given to every user
	Cost     int    // bcrypt cost; 0 uses bcrypt.DefaultCost
	Now      func() time.Time
}

// Count is how many documents Run inserted into one collection.
type Count struct {
	Collection string
	Inserted   int
}

// Run inserts one set of fixtures into db and returns per-collection
// counts in Collections order. It stops at the first failing collection.
func Run(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) ([]Count, error) {
	if opts.Password == "" {
		return nil, fmt.Errorf("seed: password is required")
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}
	data := Fixtures(now(), string(hash))
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("seed: fixtures: %w", err)
	}

	if opts.Drop {
		for _, name := range Collections {
			if err := db.Collection(name).Drop(ctx); err != nil {
				return nil, fmt.Errorf("seed: drop %s: %w", name, err)
			}
			logger.Info("dropped collection", zap.String("collection", name))
		}
	}

	docs := map[string][]interface{}{
		"companies":    toDocs(data.Companies),
		"users":        toDocs(data.Users),
		"contractors":  toDocs(data.Contractors),
		"work_permits": toDocs(data.WorkPermits),
		"activities":   toDocs(data.Activities),
		"alerts":       toDocs(data.Alerts),
	}

	counts := make([]Count, 0, len(Collections))
	for _, name := range Collections {
		res, err := db.Collection(name).InsertMany(ctx, docs[name])
		if err != nil {
			return counts, fmt.Errorf("seed: insert %s: %w", name, err)
		}
		counts = append(counts, Count{Collection: name, Inserted: len(res.InsertedIDs)})
		logger.Info("seeded collection",
			zap.String("collection", name),
			zap.Int("inserted", len(res.InsertedIDs)))
	}
	return counts, nil
}

func toDocs[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}
