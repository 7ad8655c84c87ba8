package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/store/audit"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/safetyapp/internal/testutil"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Truncate(time.Millisecond)
	entries := []models.AuditLog{
		{CompanyID: "c1", UserID: "u1", Section: models.SettingsCompany, Action: audit.ActionUpdate, Timestamp: base.Add(-2 * time.Minute)},
		{CompanyID: "c1", UserID: "u2", Section: models.SettingsTheme, Action: audit.ActionUpdate, Timestamp: base.Add(-1 * time.Minute)},
		{CompanyID: "c2", UserID: "u3", Section: models.SettingsCompany, Action: audit.ActionUpdate, Timestamp: base},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	got, err := store.Query(ctx, audit.QueryFilter{CompanyID: "c1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Query: got %d entries, want 2", len(got))
	}
	if got[0].Section != models.SettingsTheme {
		t.Errorf("newest first: got %q, want %q", got[0].Section, models.SettingsTheme)
	}
	if got[0].ID == "" {
		t.Error("expected ID to be assigned")
	}

	count, err := store.CountByFilter(ctx, audit.QueryFilter{Section: models.SettingsCompany})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountByFilter: got %d, want 2", count)
	}
}

func TestStore_QueryLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, models.AuditLog{CompanyID: "c1", Section: models.SettingsProfile}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	got, err := store.Query(ctx, audit.QueryFilter{CompanyID: "c1", Limit: 3})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Query: got %d entries, want 3", len(got))
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
}
