// internal/app/features/dashboard/handler.go
package dashboard

import (
	"errors"
	"net/http"

	"github.com/dalemusser/safetyapp/internal/app/dashboard"
	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Refreshable sections for POST /refresh/{section}.
const (
	SectionStats      = "stats"
	SectionActivities = "activities"
	SectionAlerts     = "alerts"
)

// Handler serves the caller's role dashboard out of their Session.
type Handler struct {
	Sessions *dashboard.Registry
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a dashboard Handler.
func NewHandler(sessions *dashboard.Registry, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// current returns the caller's session, loading it when it has never
// loaded for the caller's role or when ?refresh=1 is given.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) (dashboard.Snapshot, bool) {
	u, _ := auth.CurrentUser(r)
	sess := h.Sessions.Get(u.ID)

	snap := sess.Snapshot()
	if snap.Role == u.Role && !snap.LoadedAt.IsZero() && r.URL.Query().Get("refresh") == "" {
		return snap, true
	}

	snap, err := sess.Load(r.Context(), u.Role)
	if errors.Is(err, dashboard.ErrSuperseded) {
		// a concurrent request for the same user started a newer load
		snap, err = sess.Await(r.Context())
		if err == nil && snap.Role != u.Role {
			err = dashboard.ErrSuperseded
		}
	}
	if err != nil {
		h.writeErr(w, r, "dashboard load failed", err)
		return dashboard.Snapshot{}, false
	}
	return snap, true
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		respond.Error(w, http.StatusConflict, "superseded by a newer load")
	case errors.Is(err, dashboard.ErrClosed):
		respond.Error(w, http.StatusConflict, "dashboard session closed")
	case errors.Is(err, dashboard.ErrNotLoaded):
		respond.Error(w, http.StatusConflict, "dashboard not loaded")
	default:
		h.ErrLog.Write(w, r, logMsg, err)
	}
}

func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, snap dashboard.Snapshot) {
	view, err := dashboard.BuildView(snap)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "dashboard view failed", err, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	h.writeView(w, r, snap)
}

// ServeRaw handles GET /dashboard/raw and returns the snapshot itself.
func (h *Handler) ServeRaw(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.current(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, snap)
}

// HandleRefresh handles POST /dashboard/refresh/{section}.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	sess := h.Sessions.Get(u.ID)

	var (
		snap dashboard.Snapshot
		err  error
	)
	switch chi.URLParam(r, "section") {
	case SectionStats:
		snap, err = sess.RefreshStats(r.Context())
	case SectionActivities:
		snap, err = sess.RefreshActivities(r.Context())
	case SectionAlerts:
		snap, err = sess.RefreshAlerts(r.Context())
	default:
		respond.Error(w, http.StatusBadRequest, "section must be stats, activities or alerts")
		return
	}
	if err != nil {
		h.writeErr(w, r, "dashboard refresh failed", err)
		return
	}
	h.writeView(w, r, snap)
}

// HandleMarkAlertRead handles PUT /dashboard/alerts/{id}/read.
func (h *Handler) HandleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	sess := h.Sessions.Get(u.ID)
	if sess.Snapshot().LoadedAt.IsZero() {
		h.writeErr(w, r, "", dashboard.ErrNotLoaded)
		return
	}

	snap, err := sess.MarkAlertAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, "mark alert read failed", err)
		return
	}
	h.writeView(w, r, snap)
}

// HandleClose handles DELETE /dashboard and discards the caller's session.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	h.Sessions.Drop(u.ID)
	w.WriteHeader(http.StatusNoContent)
}
