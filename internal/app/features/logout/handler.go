// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/safetyapp/internal/app/dashboard"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler signs browser callers out.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Dashboards *dashboard.Registry
}

// NewHandler constructs a logout Handler. dashboards may be nil.
func NewHandler(sessionMgr *auth.SessionManager, dashboards *dashboard.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Dashboards: dashboards,
	}
}

// ServeLogout handles DELETE /session. It clears the session cookie and
// drops the caller's dashboard session so in-flight loads stop. Signing
// out twice is not an error.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok && h.Dashboards != nil {
		h.Dashboards.Drop(u.ID)
	}
	if err := h.SessionMgr.ClearToken(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
