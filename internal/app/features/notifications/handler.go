// internal/app/features/notifications/handler.go
package notifications

import (
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/notifications"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the caller's own notifications.
type Handler struct {
	Service *notifications.Service
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a notifications Handler.
func NewHandler(svc *notifications.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, ErrLog: errLog, Log: logger}
}

type countResponse struct {
	Count int `json:"count"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if errors.Is(err, notifications.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "notification not found")
		return
	}
	h.ErrLog.Write(w, r, logMsg, err)
}

// List handles GET /notifications?unread=true&type=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	win := paging.Parse(r)
	out, err := h.Service.List(r.Context(), u.ID, notifications.Filter{
		UnreadOnly: unread,
		Type:       r.URL.Query().Get("type"),
		Limit:      win.Limit,
		Offset:     win.Offset,
	})
	if err != nil {
		h.writeErr(w, r, "list notifications failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	n, err := h.Service.UnreadCount(r.Context(), u.ID)
	if err != nil {
		h.writeErr(w, r, "count notifications failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, countResponse{Count: n})
}

// Create handles POST /notifications. Only staff roles may address
// other users; everyone else can only notify themselves.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	var in notifications.CreateInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode notification failed", err, "Invalid request body.")
		return
	}
	if in.UserID == "" {
		in.UserID = u.ID
	}
	if in.UserID != u.ID && !u.Role.IsStaff() {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	if in.CompanyID == "" {
		in.CompanyID = u.CompanyID
	}
	n, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.writeErr(w, r, "create notification failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, n)
}

// MarkRead handles PUT /notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if err := h.Service.MarkAsRead(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, "mark notification read failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles PUT /notifications/read-all.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	n, err := h.Service.MarkAllAsRead(r.Context(), u.ID)
	if err != nil {
		h.writeErr(w, r, "mark all notifications read failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, countResponse{Count: n})
}

// Delete handles DELETE /notifications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if err := h.Service.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, r, "delete notification failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete handles POST /notifications/bulk-delete with {"ids": [...]}.
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	var req bulkDeleteRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode bulk delete failed", err, "Invalid request body.")
		return
	}
	n, err := h.Service.BulkDelete(r.Context(), u.ID, req.IDs)
	if err != nil {
		h.writeErr(w, r, "bulk delete notifications failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, countResponse{Count: n})
}
