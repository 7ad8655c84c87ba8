// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

/*
EnsureAll is called at startup for the collections the seed CLI fills
and the dashboard backend reads. Each set is reconciled independently and
errors are aggregated so one bad collection does not hide the others.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, set := range Sets() {
		if err := Ensure(ctx, db.Collection(set.Collection), set.Models, logger); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Sets returns the index sets for companies, users, contractors,
// work_permits, activities and alerts.
func Sets() []Set {
	return []Set{
		{Collection: "companies", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "tax_id", Value: 1}}, Options: options.Index().SetName("uniq_companies_tax_id").SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "name_ci", Value: 1}}, Options: options.Index().SetName("idx_companies_type_name")},
		}},
		{Collection: "users", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_users_email").SetUnique(true)},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "role", Value: 1}}, Options: options.Index().SetName("idx_users_company_role")},
		}},
		{Collection: "contractors", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "client_company_id", Value: 1}, {Key: "name_ci", Value: 1}}, Options: options.Index().SetName("idx_contractors_client_name")},
			{Keys: bson.D{{Key: "company_id", Value: 1}}, Options: options.Index().SetName("idx_contractors_company")},
		}},
		{Collection: "work_permits", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetName("uniq_work_permits_number").SetUnique(true)},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_date", Value: -1}}, Options: options.Index().SetName("idx_work_permits_company_status_start")},
			{Keys: bson.D{{Key: "contractor_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("idx_work_permits_contractor_status")},
		}},
		{Collection: "activities", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_activities_company_time")},
		}},
		{Collection: "alerts", Models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_alerts_company_read_time")},
			{Keys: bson.D{{Key: "type", Value: 1}}, Options: options.Index().SetName("idx_alerts_type")},
		}},
	}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// isDuplicateKeyErr works across Mongo and DocumentDB error shapes.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// Ensure reconciles models against coll's current indexes. An index with
// the same keys is reused when its uniqueness and name match, renamed when
// only the name differs, and dropped and recreated otherwise.
func Ensure(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var errs []string
	existing := listExisting(ctx, coll, logger)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolValue(unique)),
		}

		if ex, ok := existing[sig]; ok {
			if boolValue(unique) == boolValue(ex.Unique) && (name == "" || ex.Name == name) {
				logger.Debug("reusing existing index", fields...)
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				logger.Warn("drop existing index failed", append(fields, zap.String("existing", ex.Name), zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && boolValue(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			logger.Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		logger.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
