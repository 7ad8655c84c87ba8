// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/dashboard").
//
// The dashboard shown depends on the caller's role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Delete("/", h.HandleClose)
		pr.Get("/raw", h.ServeRaw)
		pr.Post("/refresh/{section}", h.HandleRefresh)
		pr.Put("/alerts/{id}/read", h.HandleMarkAlertRead)
	})

	return r
}
