// internal/app/features/courses/handler.go
package courses

import (
	"net/http"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/services/coursesapi"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler proxies the course catalog and TalentLMS sync. Backend errors
// reach the caller with the backend's status and message.
type Handler struct {
	Courses *coursesapi.Client
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a courses Handler.
func NewHandler(c *coursesapi.Client, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Courses: c, ErrLog: errLog, Log: logger}
}

// List handles GET /courses?category=&search=&status=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	win := paging.Parse(r)
	out, err := h.Courses.List(r.Context(), coursesapi.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Limit:    win.Limit,
		Offset:   win.Offset,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "list courses failed", err)
		return
	}
	if out == nil {
		out = []models.Course{}
	}
	respond.JSON(w, http.StatusOK, out)
}

// Get handles GET /courses/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get course failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// Mine handles GET /courses/mine.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	out, err := h.Courses.MyCourses(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "list my courses failed", err)
		return
	}
	if out == nil {
		out = []models.CourseProgress{}
	}
	respond.JSON(w, http.StatusOK, out)
}

// Enroll handles POST /courses/{id}/enroll.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	p, err := h.Courses.Enroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "enroll failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

// UserProgress handles GET /courses/users/{userID}/progress.
func (h *Handler) UserProgress(w http.ResponseWriter, r *http.Request) {
	out, err := h.Courses.UserProgress(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.Write(w, r, "load user progress failed", err)
		return
	}
	if out == nil {
		out = []models.CourseProgress{}
	}
	respond.JSON(w, http.StatusOK, out)
}

// Sync handles POST /courses/sync.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	st, err := h.Courses.SyncTalentLMS(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "start course sync failed", err)
		return
	}
	h.Log.Info("course sync requested", zap.String("status", st.Status))
	respond.JSON(w, http.StatusAccepted, st)
}

// SyncStatus handles GET /courses/sync/status.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Courses.SyncStatus(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "load sync status failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}
