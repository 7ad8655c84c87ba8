package reviewstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/reviews"
	reviewstore "github.com/dalemusser/safetyapp/internal/app/store/reviews"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/safetyapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertGetUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	r, err := store.Insert(ctx, models.Review{
		ContractorID: primitive.NewObjectID(),
		CompanyID:    primitive.NewObjectID(),
		ReviewerID:   "u1",
		Rating:       4.5,
		Comment:      "Buen trabajo en terreno",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if r.ID.IsZero() {
		t.Fatal("expected ID to be assigned")
	}

	r.Rating = 3
	if err := store.Update(ctx, r); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Rating != 3 {
		t.Errorf("Rating: got %v, want 3", got.Rating)
	}

	if _, err := store.Get(ctx, primitive.NewObjectID()); !errors.Is(err, reviews.ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
	if err := store.Update(ctx, models.Review{ID: primitive.NewObjectID()}); !errors.Is(err, reviews.ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_ListByContractor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contractor := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		if _, err := store.Insert(ctx, models.Review{ContractorID: contractor, Rating: float64(i + 1), CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if _, err := store.Insert(ctx, models.Review{ContractorID: primitive.NewObjectID(), Rating: 5, CreatedAt: base}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.ListByContractor(ctx, contractor, 2, 0)
	if err != nil {
		t.Fatalf("ListByContractor failed: %v", err)
	}
	if len(got) != 2 || got[0].Rating != 3 {
		t.Errorf("ListByContractor: got %+v", got)
	}

	all, err := store.ListByContractor(ctx, contractor, 0, 0)
	if err != nil {
		t.Fatalf("ListByContractor failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListByContractor all: got %d, want 3", len(all))
	}
}
