package indexes_test

import (
	"testing"

	"github.com/dalemusser/safetyapp/internal/app/system/indexes"
	"github.com/dalemusser/safetyapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bson.M {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	out := map[string]bson.M{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		out[idx["name"].(string)] = idx
	}
	return out
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesEverySet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	for _, set := range indexes.Sets() {
		names := indexNames(t, db.Collection(set.Collection))
		for _, m := range set.Models {
			want := *m.Options.Name
			if _, ok := names[want]; !ok {
				t.Errorf("%s: missing index %s", set.Collection, want)
			}
		}
	}
}

func TestEnsure_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("alerts")
	keys := bson.D{{Key: "type", Value: 1}}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: options.Index().SetName("legacy_type")}); err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	err := indexes.Ensure(ctx, coll, []mongo.IndexModel{
		{Keys: keys, Options: options.Index().SetName("idx_alerts_type")},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	names := indexNames(t, coll)
	if _, ok := names["legacy_type"]; ok {
		t.Error("legacy index should have been dropped")
	}
	if _, ok := names["idx_alerts_type"]; !ok {
		t.Error("expected idx_alerts_type")
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email": "a@example.com"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"email": "a@example.com"}); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestEnsure_ReportsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("work_permits")
	for i := 0; i < 2; i++ {
		if _, err := coll.InsertOne(ctx, bson.M{"number": "WP-1"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	err := indexes.Ensure(ctx, coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetName("uniq_work_permits_number").SetUnique(true)},
	}, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for duplicate numbers")
	}
}
