package auditlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/store/audit"
	"github.com/dalemusser/safetyapp/internal/app/system/auditlog"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx := context.Background()

	logger.Log(ctx, models.AuditLog{Section: "company"})
	logger.SettingsUpdated(ctx, "c1", "u1", "company", nil)
	got, err := logger.Recent(ctx, "c1", 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("Recent on nil logger = %v, %v", got, err)
	}
	if logger.Mode() != auditlog.ModeOff {
		t.Errorf("Mode: got %q, want off", logger.Mode())
	}
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode      string
		wantStore int
		wantLog   int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
		{"bogus", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			sink := auditlog.NewMemorySink()
			logger := auditlog.New(sink, zap.New(core), tt.mode)
			ctx := context.Background()

			logger.SettingsUpdated(ctx, "c1", "u1", models.SettingsCompany, map[string]string{"name": "Acme"})

			stored, _ := sink.Query(ctx, audit.QueryFilter{})
			if len(stored) != tt.wantStore {
				t.Errorf("stored: got %d, want %d", len(stored), tt.wantStore)
			}
			if logs.Len() != tt.wantLog {
				t.Errorf("zap entries: got %d, want %d", logs.Len(), tt.wantLog)
			}
		})
	}
}

func TestLogger_FillsIDAndTimestamp(t *testing.T) {
	sink := auditlog.NewMemorySink()
	logger := auditlog.New(sink, zap.NewNop(), auditlog.ModeDB)
	ctx := context.Background()

	logger.SettingsUpdated(ctx, "c1", "u1", models.SettingsTheme, nil)

	got, err := logger.Recent(ctx, "c1", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent: got %d, want 1", len(got))
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Errorf("entry not stamped: %+v", got[0])
	}
	if got[0].Action != audit.ActionUpdate {
		t.Errorf("Action: got %q, want %q", got[0].Action, audit.ActionUpdate)
	}
}

type failingSink struct{}

func (failingSink) Log(context.Context, models.AuditLog) error { return errors.New("down") }
func (failingSink) Query(context.Context, audit.QueryFilter) ([]models.AuditLog, error) {
	return nil, errors.New("down")
}

func TestLogger_StoreFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := auditlog.New(failingSink{}, zap.New(core), auditlog.ModeDB)

	logger.SettingsUpdated(context.Background(), "c1", "u1", models.SettingsSecurity, nil)

	if logs.FilterMessage("failed to store audit entry").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}

func TestMemorySink_QueryFiltersAndOrders(t *testing.T) {
	sink := auditlog.NewMemorySink()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []string{"c1", "c2", "c1", "c1"} {
		_ = sink.Log(ctx, models.AuditLog{ID: string(rune('a' + i)), CompanyID: c, Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}

	got, err := sink.Query(ctx, audit.QueryFilter{CompanyID: "c1", Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d" || got[1].ID != "c" {
		t.Errorf("Query: got %+v", got)
	}

	got, _ = sink.Query(ctx, audit.QueryFilter{CompanyID: "c1", Offset: 5})
	if len(got) != 0 {
		t.Errorf("offset past end: got %d entries", len(got))
	}
}
