// internal/app/features/settings/admin.go
package settings

import (
	"net/http"

	"github.com/dalemusser/safetyapp/internal/app/settings"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// Company-wide sections. Reads are open to any member of the company;
// writes are restricted to company admins in routes.go.

// GetCompany handles GET /settings/company.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, models.SettingsCompany, func(r *http.Request, a settings.Actor) (models.CompanySettings, error) {
		return h.Service.GetCompany(r.Context(), a)
	})
}

// UpdateCompany handles PUT /settings/company.
func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, models.SettingsCompany, func(r *http.Request, a settings.Actor, in models.CompanySettings) (models.CompanySettings, error) {
		return h.Service.UpdateCompany(r.Context(), a, in)
	})
}

// GetSecurity handles GET /settings/security.
func (h *Handler) GetSecurity(w http.ResponseWriter, r *http.Request) {
	serveGet(h, w, r, models.SettingsSecurity, func(r *http.Request, a settings.Actor) (models.SecuritySettings, error) {
		return h.Service.GetSecurity(r.Context(), a)
	})
}

// UpdateSecurity handles PUT /settings/security.
func (h *Handler) UpdateSecurity(w http.ResponseWriter, r *http.Request) {
	serveUpdate(h, w, r, models.SettingsSecurity, func(r *http.Request, a settings.Actor, in models.SecuritySettings) (models.SecuritySettings, error) {
		return h.Service.UpdateSecurity(r.Context(), a, in)
	})
}

// AuditLogs handles GET /settings/audit-logs?limit=N for the caller's
// company, newest first.
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if u.CompanyID == "" {
		h.writeErr(w, r, "list audit logs failed", settings.ErrNoCompany)
		return
	}
	logs, err := h.Service.AuditLogs(r.Context(), u.CompanyID, paging.Parse(r).Limit)
	if err != nil {
		h.writeErr(w, r, "list audit logs failed", err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	respond.JSON(w, http.StatusOK, logs)
}
