// internal/app/features/settings/handler.go
package settings

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/settings"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
)

// Handler owns the /settings endpoints.
type Handler struct {
	Service *settings.Service
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the settings service and logger.
func NewHandler(svc *settings.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Service: svc,
		Log:     logger,
		ErrLog:  errLog,
	}
}

func actor(r *http.Request) settings.Actor {
	u, _ := auth.CurrentUser(r)
	return settings.Actor{UserID: u.ID, CompanyID: u.CompanyID}
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if errors.Is(err, settings.ErrNoCompany) {
		respond.Error(w, http.StatusForbidden, "company settings require a company account")
		return
	}
	h.ErrLog.Write(w, r, logMsg, err)
}

// serveGet writes the result of get for the calling actor.
func serveGet[T any](h *Handler, w http.ResponseWriter, r *http.Request, section string, get func(*http.Request, settings.Actor) (T, error)) {
	out, err := get(r, actor(r))
	if err != nil {
		h.writeErr(w, r, "load "+section+" settings failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// serveUpdate decodes a T from the body and applies update.
func serveUpdate[T any](h *Handler, w http.ResponseWriter, r *http.Request, section string, update func(*http.Request, settings.Actor, T) (T, error)) {
	var in T
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode "+section+" settings failed", err, "Invalid request body.")
		return
	}
	out, err := update(r, actor(r), in)
	if err != nil {
		h.writeErr(w, r, "update "+section+" settings failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetNotifications handles GET /settings/notifications.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, models.SettingsNotifications, func(r *http.Request, a settings.Actor) (models.NotificationSettings, error) {
		return h.Service.GetNotifications(r.Context(), a)
	})
}

// UpdateNotifications handles PUT /settings/notifications.
func (h *Handler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, models.SettingsNotifications, func(r *http.Request, a settings.Actor, in models.NotificationSettings) (models.NotificationSettings, error) {
		return h.Service.UpdateNotifications(r.Context(), a, in)
	})
}

// GetTheme handles GET /settings/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, models.SettingsTheme, func(r *http.Request, a settings.Actor) (models.ThemeSettings, error) {
		return h.Service.GetTheme(r.Context(), a)
	})
}

// UpdateTheme handles PUT /settings/theme.
func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, models.SettingsTheme, func(r *http.Request, a settings.Actor, in models.ThemeSettings) (models.ThemeSettings, error) {
		return h.Service.UpdateTheme(r.Context(), a, in)
	})
}

// GetProfile handles GET /settings/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, models.SettingsProfile, func(r *http.Request, a settings.Actor) (models.ProfileSettings, error) {
		return h.Service.GetProfile(r.Context(), a)
	})
}

// UpdateProfile handles PUT /settings/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, models.SettingsProfile, func(r *http.Request, a settings.Actor, in models.ProfileSettings) (models.ProfileSettings, error) {
		return h.Service.UpdateProfile(r.Context(), a, in)
	})
}
