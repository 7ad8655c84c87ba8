// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	consentfeature "github.com/dalemusser/safetyapp/internal/app/features/consent"
	coursesfeature "github.com/dalemusser/safetyapp/internal/app/features/courses"
	dashboardfeature "github.com/dalemusser/safetyapp/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/safetyapp/internal/app/features/errors"
	healthfeature "github.com/dalemusser/safetyapp/internal/app/features/health"
	loginfeature "github.com/dalemusser/safetyapp/internal/app/features/login"
	logoutfeature "github.com/dalemusser/safetyapp/internal/app/features/logout"
	notificationsfeature "github.com/dalemusser/safetyapp/internal/app/features/notifications"
	reviewsfeature "github.com/dalemusser/safetyapp/internal/app/features/reviews"
	settingsfeature "github.com/dalemusser/safetyapp/internal/app/features/settings"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/limits"
	"github.com/dalemusser/safetyapp/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed, so every shared service already lives in
// deps.Runtime. This function creates the session manager, applies the
// global middleware and mounts one router per feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	rt := deps.Runtime
	if rt == nil || rt.Dashboards == nil {
		return nil, errors.New("build handler: Startup has not run")
	}

	// Secure cookies are enabled in production mode.
	prod := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, prod, []byte(appCfg.JWTSecret), logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(prod).Handler)
	r.Use(rt.Metrics.Middleware)
	r.Use(middleware.Timeout(timeouts.Long()))
	r.Use(middleware.RequestSize(limits.MaxRequestBody))

	// Global auth middleware: loads SessionUser into context from the bearer
	// header or the session cookie. Handlers read it via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check and metrics for load balancers and scrapers
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", rt.Metrics.Handler())

	// Session (browser token cookie) and password reset
	loginHandler := loginfeature.NewHandler(sessionMgr, rt.Auth, rt.Accounts, errLog, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, rt.Dashboards, logger)
	r.Mount("/session", loginfeature.SessionRoutes(loginHandler, logoutHandler.ServeLogout))
	r.Mount("/auth", loginfeature.AuthRoutes(loginHandler, appCfg.AuthRateLimit))

	// Role dashboards
	dashboardHandler := dashboardfeature.NewHandler(rt.Dashboards, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Per-user notifications
	notificationsHandler := notificationsfeature.NewHandler(rt.Notifications, errLog, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	// Settings and the audit trail
	settingsHandler := settingsfeature.NewHandler(rt.Settings, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	// Contractor reviews
	reviewsHandler := reviewsfeature.NewHandler(rt.Reviews, errLog, logger)
	r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, sessionMgr))

	// Cookie consent and anonymous theme preferences
	consentHandler := consentfeature.NewHandler(rt.Consent, errLog, logger, prod)
	r.Mount("/consent", consentfeature.Routes(consentHandler))

	// Course catalog (TalentLMS proxy)
	coursesHandler := coursesfeature.NewHandler(rt.Courses, errLog, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler, sessionMgr))

	return r, nil
}

// securityHeaders returns the header policy for a JSON API: nothing may
// frame or embed responses, and HSTS is sent in production.
func securityHeaders(prod bool) *secure.Secure {
	opts := secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !prod,
	}
	if prod {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return secure.New(opts)
}
