// internal/app/features/courses/routes.go
package courses

import (
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the course endpoints. Sync and other users' progress are
// staff-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.List)
		pr.Get("/mine", h.Mine)
		pr.Get("/{id}", h.Get)
		pr.Post("/{id}/enroll", h.Enroll)
	})
	r.Group(func(sr chi.Router) {
		sr.Use(sm.RequireRole(models.RoleSuperAdmin, models.RoleSafetyStaff))
		sr.Post("/sync", h.Sync)
		sr.Get("/sync/status", h.SyncStatus)
		sr.Get("/users/{userID}/progress", h.UserProgress)
	})
	return r
}
