// internal/app/features/reviews/handler.go
package reviews

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/reviews"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves contractor reviews.
type Handler struct {
	Service *reviews.Service
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a reviews Handler.
func NewHandler(svc *reviews.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, ErrLog: errLog, Log: logger}
}

func actor(r *http.Request) reviews.Actor {
	u, _ := auth.CurrentUser(r)
	return reviews.Actor{UserID: u.ID, Name: u.Name, CompanyID: u.CompanyID}
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, reviews.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "review not found")
	case errors.Is(err, reviews.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "only the reviewer may edit this review")
	case errors.Is(err, reviews.ErrNoCompany):
		respond.Error(w, http.StatusForbidden, "reviews require a company account")
	default:
		h.ErrLog.Write(w, r, logMsg, err)
	}
}

// Create handles POST /reviews.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in reviews.Input
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode review failed", err, "Invalid request body.")
		return
	}
	rev, err := h.Service.Create(r.Context(), actor(r), in)
	if err != nil {
		h.writeErr(w, r, "create review failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, rev)
}

// Update handles PUT /reviews/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := reviews.ParseID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, "parse review id failed", err)
		return
	}
	var in reviews.Input
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode review failed", err, "Invalid request body.")
		return
	}
	rev, err := h.Service.Update(r.Context(), actor(r), id, in)
	if err != nil {
		h.writeErr(w, r, "update review failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, rev)
}

// ListByContractor handles GET /reviews/contractor/{id}?limit=&offset=.
func (h *Handler) ListByContractor(w http.ResponseWriter, r *http.Request) {
	id, err := reviews.ParseID("contractorId", chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, "parse contractor id failed", err)
		return
	}
	win := paging.Parse(r)
	out, err := h.Service.ListByContractor(r.Context(), id, win.Limit, win.Offset)
	if err != nil {
		h.writeErr(w, r, "list reviews failed", err)
		return
	}
	if out == nil {
		out = []models.Review{}
	}
	respond.JSON(w, http.StatusOK, out)
}

// Summary handles GET /reviews/contractor/{id}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := reviews.ParseID("contractorId", chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, "parse contractor id failed", err)
		return
	}
	sum, err := h.Service.Summary(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, "summarize reviews failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}
