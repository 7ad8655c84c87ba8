// internal/app/features/consent/handler.go
package consent

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/consent"
	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitorCookie identifies an anonymous browser across requests. It is a
// strictly necessary cookie, so it is set before any consent is given.
const VisitorCookie = "sa_visitor"

// Handler serves the cookie banner and anonymous theme preferences.
type Handler struct {
	Manager *consent.Manager
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
	Secure  bool
}

// NewHandler constructs a consent Handler. secure marks the visitor
// cookie Secure.
func NewHandler(m *consent.Manager, errLog *uierrors.ErrorLogger, logger *zap.Logger, secure bool) *Handler {
	return &Handler{Manager: m, ErrLog: errLog, Log: logger, Secure: secure}
}

// visitor returns the caller's visitor id, issuing one when absent.
func (h *Handler) visitor(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(consent.DefaultTTL / time.Second),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if errors.Is(err, consent.ErrPreferencesDeclined) {
		respond.Error(w, http.StatusConflict, "preference cookies have not been accepted")
		return
	}
	h.ErrLog.Write(w, r, logMsg, err)
}

func (h *Handler) writeState(w http.ResponseWriter, r *http.Request, logMsg string, st consent.State, err error) {
	if err != nil {
		h.writeErr(w, r, logMsg, err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

// Get handles GET /consent.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.Manager.Get(r.Context(), h.visitor(w, r))
	h.writeState(w, r, "load consent failed", st, err)
}

// Save handles POST /consent with the chosen categories.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var in models.CookieConsents
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode consent failed", err, "Invalid request body.")
		return
	}
	st, err := h.Manager.Save(r.Context(), h.visitor(w, r), in)
	h.writeState(w, r, "save consent failed", st, err)
}

// AcceptAll handles POST /consent/accept-all.
func (h *Handler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	st, err := h.Manager.AcceptAll(r.Context(), h.visitor(w, r))
	h.writeState(w, r, "accept consent failed", st, err)
}

// RejectAll handles POST /consent/reject-all.
func (h *Handler) RejectAll(w http.ResponseWriter, r *http.Request) {
	st, err := h.Manager.RejectAll(r.Context(), h.visitor(w, r))
	h.writeState(w, r, "reject consent failed", st, err)
}

// Reset handles DELETE /consent; the banner shows again afterwards.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Manager.Reset(r.Context(), h.visitor(w, r)); err != nil {
		h.writeErr(w, r, "reset consent failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Theme handles GET /consent/theme.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	p, err := h.Manager.Theme(r.Context(), h.visitor(w, r))
	if err != nil {
		h.writeErr(w, r, "load theme failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// SaveTheme handles PUT /consent/theme. It needs preference consent.
func (h *Handler) SaveTheme(w http.ResponseWriter, r *http.Request) {
	var in consent.ThemePreferences
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode theme failed", err, "Invalid request body.")
		return
	}
	p, err := h.Manager.SaveTheme(r.Context(), h.visitor(w, r), in)
	if err != nil {
		h.writeErr(w, r, "save theme failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
