// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/dashboard"
	"github.com/dalemusser/safetyapp/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Notification backends.
const (
	NotificationsMongo  = "mongo"
	NotificationsMemory = "memory"
)

// appConfigKeys defines the configuration keys for the Safety App.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_url, etc.
//   - Environment variables: SAFETYAPP_MONGO_URI, SAFETYAPP_API_URL, etc.
//   - Command-line flags: --mongo_uri, --api_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "safetyapp", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Backend REST API
	{Name: "api_url", Default: "http://localhost:3000", Desc: "Base URL of the safety backend API"},
	{Name: "api_timeout", Default: "10s", Desc: "Timeout for a single backend request"},

	// Caller identity
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret used to verify bearer tokens (required)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "safetyapp-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	// Redis
	{Name: "redis_addr", Default: "", Desc: "Redis address for consent storage (blank keeps it in memory)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},

	// Dashboard
	{Name: "dashboard_fallback", Default: "mock", Desc: "Dashboard failure policy: 'mock' (substitute mock data) or 'fail'"},
	{Name: "dashboard_rollback_alerts", Default: false, Desc: "Restore an alert's read flag when the backend rejects mark-as-read"},
	{Name: "dashboard_session_ttl", Default: "30m", Desc: "Close dashboard sessions idle for longer than this"},
	{Name: "dashboard_sweep_interval", Default: "1m", Desc: "How often idle dashboard sessions are swept"},

	// Notifications
	{Name: "notifications_backend", Default: NotificationsMongo, Desc: "Notification storage: 'mongo' or 'memory'"},
	{Name: "notifications_latency", Default: "0s", Desc: "Simulated latency for the memory notification backend"},

	// Consent
	{Name: "consent_version", Default: "1.0", Desc: "Cookie consent version; stored choices with another version are asked again"},
	{Name: "consent_ttl", Default: "8760h", Desc: "How long a consent choice is kept"},

	// Audit
	{Name: "audit_mode", Default: auditlog.ModeAll, Desc: "Settings audit logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Rate limits
	{Name: "auth_rate_limit", Default: 10, Desc: "Requests per minute per client IP on /auth"},
	{Name: "password_reset_limit", Default: 5, Desc: "Forgot-password requests per account per window"},
	{Name: "password_reset_window", Default: "15m", Desc: "Window for password_reset_limit"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Timeout for connectivity checks"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for schema setup and whole requests"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, SAFETYAPP_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SAFETYAPP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIURL:     appValues.String("api_url"),
		APITimeout: appValues.Duration("api_timeout", 10*time.Second),

		JWTSecret:     appValues.String("jwt_secret"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),

		DashboardFallback:       appValues.String("dashboard_fallback"),
		DashboardRollbackAlerts: appValues.Bool("dashboard_rollback_alerts"),
		DashboardSessionTTL:     appValues.Duration("dashboard_session_ttl", 30*time.Minute),
		DashboardSweepInterval:  appValues.Duration("dashboard_sweep_interval", time.Minute),

		NotificationsBackend: appValues.String("notifications_backend"),
		NotificationsLatency: appValues.Duration("notifications_latency", 0),

		ConsentVersion: appValues.String("consent_version"),
		ConsentTTL:     appValues.Duration("consent_ttl", 365*24*time.Hour),

		AuditMode: appValues.String("audit_mode"),

		AuthRateLimit:       appValues.Int("auth_rate_limit"),
		PasswordResetLimit:  appValues.Int("password_reset_limit"),
		PasswordResetWindow: appValues.Duration("password_reset_window", 15*time.Minute),

		TimeoutPing:   appValues.Duration("timeout_ping", 2*time.Second),
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems that would otherwise surface on the first request (a bad Mongo
// URI, no JWT secret, an unknown dashboard policy) are caught here.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

func validateAppConfig(appCfg AppConfig) error {
	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database is required")
	}
	if _, err := dashboard.ParseFallback(appCfg.DashboardFallback); err != nil {
		return err
	}
	switch appCfg.NotificationsBackend {
	case NotificationsMongo, NotificationsMemory:
	default:
		return fmt.Errorf("notifications_backend must be %q or %q, got %q",
			NotificationsMongo, NotificationsMemory, appCfg.NotificationsBackend)
	}
	switch appCfg.AuditMode {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_mode must be all, db, log or off, got %q", appCfg.AuditMode)
	}
	if appCfg.AuthRateLimit <= 0 {
		return errors.New("auth_rate_limit must be positive")
	}
	if appCfg.PasswordResetLimit <= 0 {
		return errors.New("password_reset_limit must be positive")
	}
	if appCfg.DashboardSessionTTL <= 0 || appCfg.DashboardSweepInterval <= 0 {
		return errors.New("dashboard_session_ttl and dashboard_sweep_interval must be positive")
	}
	return nil
}
