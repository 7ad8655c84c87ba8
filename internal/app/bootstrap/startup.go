// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/safetyapp/internal/app/consent"
	"github.com/dalemusser/safetyapp/internal/app/dashboard"
	"github.com/dalemusser/safetyapp/internal/app/notifications"
	"github.com/dalemusser/safetyapp/internal/app/reviews"
	"github.com/dalemusser/safetyapp/internal/app/services/authapi"
	"github.com/dalemusser/safetyapp/internal/app/services/coursesapi"
	"github.com/dalemusser/safetyapp/internal/app/services/dashboardsvc"
	"github.com/dalemusser/safetyapp/internal/app/settings"
	auditstore "github.com/dalemusser/safetyapp/internal/app/store/audit"
	notificationstore "github.com/dalemusser/safetyapp/internal/app/store/notifications"
	reviewstore "github.com/dalemusser/safetyapp/internal/app/store/reviews"
	settingsstore "github.com/dalemusser/safetyapp/internal/app/store/settings"
	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/app/system/auditlog"
	"github.com/dalemusser/safetyapp/internal/app/system/metrics"
	"github.com/dalemusser/safetyapp/internal/app/system/ratelimit"
	"github.com/dalemusser/safetyapp/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// consentKeyPrefix namespaces visitor records in Redis.
const consentKeyPrefix = "safetyapp:visitor:"

// Runtime holds the long-lived services shared by every handler and the
// background workers that Shutdown must stop.
type Runtime struct {
	Metrics       *metrics.Metrics
	API           *apiclient.Client
	Courses       *coursesapi.Client
	Auth          *authapi.Client
	Dashboards    *dashboard.Registry
	Notifications *notifications.Service
	Settings      *settings.Service
	Reviews       *reviews.Service
	Consent       *consent.Manager
	Accounts      *ratelimit.AccountLimiter

	cleanup     *workers.SessionCleanup
	stopLimiter context.CancelFunc
}

// Startup builds the shared services once DB connections and schema setup
// are complete, and starts the background workers. BuildHandler only wires
// what Startup produced.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Runtime == nil {
		return fmt.Errorf("startup: DBDeps.Runtime is nil")
	}
	rt, err := buildRuntime(appCfg, deps, logger)
	if err != nil {
		return err
	}
	*deps.Runtime = *rt

	deps.Runtime.cleanup.Start()

	// The limiter's sweeper must outlive the startup context.
	limiterCtx, stop := context.WithCancel(context.Background())
	deps.Runtime.stopLimiter = stop
	go deps.Runtime.Accounts.Run(limiterCtx)

	logger.Info("safetyapp services started",
		zap.String("api_url", deps.Runtime.API.BaseURL()),
		zap.String("dashboard_fallback", appCfg.DashboardFallback),
		zap.Bool("dashboard_rollback_alerts", appCfg.DashboardRollbackAlerts),
		zap.String("notifications_backend", appCfg.NotificationsBackend),
		zap.Bool("redis", deps.Redis != nil))
	return nil
}

// buildRuntime constructs every service without starting goroutines.
func buildRuntime(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*Runtime, error) {
	rt := &Runtime{Metrics: metrics.New()}

	api, err := apiclient.New(appCfg.APIURL, appCfg.APITimeout, logger.Named("apiclient"))
	if err != nil {
		return nil, err
	}
	rt.API = api
	rt.Courses = coursesapi.New(api)
	rt.Auth = authapi.New(api)

	fallback, err := dashboard.ParseFallback(appCfg.DashboardFallback)
	if err != nil {
		return nil, err
	}
	loader := dashboard.NewLoader(
		dashboardsvc.New(api, logger.Named("dashboardsvc")),
		dashboard.Policy{Fallback: fallback, RollbackAlertOnFailure: appCfg.DashboardRollbackAlerts},
		logger.Named("dashboard"),
		dashboard.WithCollector(dashboard.NewCollector(rt.Metrics.Registerer())),
	)
	rt.Dashboards = dashboard.NewRegistry(loader, logger.Named("dashboard"))
	rt.cleanup = workers.NewSessionCleanup("dashboard", rt.Dashboards, logger,
		appCfg.DashboardSweepInterval, appCfg.DashboardSessionTTL)

	var notifRepo notifications.Repository
	switch appCfg.NotificationsBackend {
	case NotificationsMemory:
		notifRepo = notifications.NewMemoryRepository(appCfg.NotificationsLatency)
	default:
		notifRepo = notificationstore.New(deps.MongoDatabase)
	}
	rt.Notifications = notifications.NewService(notifRepo, logger.Named("notifications"))

	audit := auditlog.New(auditstore.New(deps.MongoDatabase), logger.Named("audit"), appCfg.AuditMode)
	rt.Settings = settings.NewService(settingsstore.New(deps.MongoDatabase), audit, logger.Named("settings"))
	rt.Reviews = reviews.NewService(reviewstore.New(deps.MongoDatabase), logger.Named("reviews"))

	var kv consent.KV = consent.NewMemoryKV()
	if deps.Redis != nil {
		kv = consent.NewRedisKV(deps.Redis, consentKeyPrefix)
	}
	rt.Consent = consent.NewManager(kv, appCfg.ConsentVersion, appCfg.ConsentTTL, logger.Named("consent"))

	rt.Accounts = ratelimit.NewAccountLimiter(appCfg.PasswordResetLimit, appCfg.PasswordResetWindow)
	return rt, nil
}
