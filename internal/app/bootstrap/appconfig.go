// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework settings (ports, TLS, logging,
// CORS, body limits). Everything below is specific to the Safety App
// backend-for-frontend and is loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Backend REST API
	APIURL     string        // base URL of the safety backend
	APITimeout time.Duration // per-request ceiling on top of the caller's context

	// Caller identity
	JWTSecret     string        // HS256 secret shared with the backend
	SessionKey    string        // secret for signing session cookies
	SessionName   string        // cookie name (default: safetyapp-session)
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // cookie lifetime

	// Redis (consent and preference storage). Blank RedisAddr keeps them
	// in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Dashboard orchestration
	DashboardFallback       string        // "mock" or "fail"
	DashboardRollbackAlerts bool          // undo the optimistic alert flip when the backend call fails
	DashboardSessionTTL     time.Duration // idle sessions older than this are closed
	DashboardSweepInterval  time.Duration

	// Notifications
	NotificationsBackend string        // "mongo" or "memory"
	NotificationsLatency time.Duration // simulated latency for the memory backend

	// Cookie consent
	ConsentVersion string
	ConsentTTL     time.Duration

	// Settings audit trail: "all", "db", "log" or "off"
	AuditMode string

	// Rate limits
	AuthRateLimit       int           // requests per minute per IP on /auth
	PasswordResetLimit  int           // forgot-password requests per account
	PasswordResetWindow time.Duration

	// Timeouts for startup and request-scoped I/O
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
