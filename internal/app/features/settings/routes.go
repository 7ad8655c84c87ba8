// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the settings endpoints. Everyone signed in manages their
// own notification, theme and profile sections; company and security
// sections and the audit trail need a company admin role to change or read
// history.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/notifications", h.GetNotifications)
		pr.Put("/notifications", h.UpdateNotifications)
		pr.Get("/theme", h.GetTheme)
		pr.Put("/theme", h.UpdateTheme)
		pr.Get("/profile", h.GetProfile)
		pr.Put("/profile", h.UpdateProfile)

		pr.Get("/company", h.GetCompany)
		pr.Get("/security", h.GetSecurity)
	})
	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.CompanyAdminRoles()...))
		ar.Put("/company", h.UpdateCompany)
		ar.Put("/security", h.UpdateSecurity)
		ar.Get("/audit-logs", h.AuditLogs)
	})
	return r
}
