package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testAppConfig() AppConfig {
	return AppConfig{
		MongoURI:               "mongodb://localhost:27017",
		MongoDatabase:          "safetyapp_test",
		APIURL:                 "http://localhost:3000",
		APITimeout:             time.Second,
		JWTSecret:              "test-jwt-secret",
		SessionKey:             "test-session-key-must-be-32-chars-long",
		SessionName:            "safetyapp-session",
		SessionMaxAge:          time.Hour,
		DashboardFallback:      "mock",
		DashboardSessionTTL:    time.Minute,
		DashboardSweepInterval: time.Minute,
		NotificationsBackend:   NotificationsMemory,
		ConsentVersion:         "1.0",
		AuditMode:              "all",
		AuthRateLimit:          10,
		PasswordResetLimit:     5,
		PasswordResetWindow:    15 * time.Minute,
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "empty fallback means mock", mutate: func(c *AppConfig) { c.DashboardFallback = "" }},
		{name: "fail fallback", mutate: func(c *AppConfig) { c.DashboardFallback = "fail" }},
		{name: "mongo notifications", mutate: func(c *AppConfig) { c.NotificationsBackend = NotificationsMongo }},
		{name: "missing jwt secret", mutate: func(c *AppConfig) { c.JWTSecret = "" }, wantErr: "jwt_secret"},
		{name: "missing database", mutate: func(c *AppConfig) { c.MongoDatabase = "" }, wantErr: "mongo_database"},
		{name: "unknown fallback", mutate: func(c *AppConfig) { c.DashboardFallback = "retry" }, wantErr: "unknown fallback"},
		{name: "unknown notifications backend", mutate: func(c *AppConfig) { c.NotificationsBackend = "sql" }, wantErr: "notifications_backend"},
		{name: "unknown audit mode", mutate: func(c *AppConfig) { c.AuditMode = "verbose" }, wantErr: "audit_mode"},
		{name: "zero auth rate", mutate: func(c *AppConfig) { c.AuthRateLimit = 0 }, wantErr: "auth_rate_limit"},
		{name: "zero reset limit", mutate: func(c *AppConfig) { c.PasswordResetLimit = 0 }, wantErr: "password_reset_limit"},
		{name: "zero session ttl", mutate: func(c *AppConfig) { c.DashboardSessionTTL = 0 }, wantErr: "dashboard_session_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAppConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildHandler_RequiresStartup(t *testing.T) {
	_, err := BuildHandler(&config.CoreConfig{Env: "dev"}, testAppConfig(), DBDeps{}, testLogger())
	if err == nil {
		t.Fatal("expected an error when Startup has not run")
	}
}

func startedDeps(t *testing.T, cfg AppConfig) DBDeps {
	t.Helper()
	db := testutil.SetupTestDB(t)
	deps := DBDeps{
		MongoClient:   db.Client(),
		MongoDatabase: db,
		Runtime:       &Runtime{},
	}
	if err := Startup(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	t.Cleanup(func() {
		// Leave the client to SetupTestDB's cleanup.
		noClient := deps
		noClient.MongoClient = nil
		if err := Shutdown(context.Background(), nil, cfg, noClient, testLogger()); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return deps
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	for i := 0; i < 2; i++ {
		if err := EnsureSchema(context.Background(), nil, testAppConfig(), deps, testLogger()); err != nil {
			t.Fatalf("EnsureSchema run %d failed: %v", i+1, err)
		}
	}
}

func TestBuildHandler_MountsFeatures(t *testing.T) {
	cfg := testAppConfig()
	deps := startedDeps(t, cfg)

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/no-such-route", http.StatusNotFound},
		{http.MethodGet, "/session", http.StatusUnauthorized},
		{http.MethodGet, "/dashboard", http.StatusUnauthorized},
		{http.MethodGet, "/notifications", http.StatusUnauthorized},
		{http.MethodGet, "/settings/theme", http.StatusUnauthorized},
		{http.MethodGet, "/courses", http.StatusUnauthorized},
		{http.MethodGet, "/consent", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestBuildHandler_SecurityHeadersAndMetrics(t *testing.T) {
	cfg := testAppConfig()
	deps := startedDeps(t, cfg)

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "safetyapp_http_requests_total") {
		t.Error("metrics output missing safetyapp_http_requests_total")
	}
}
