// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes mounts the review endpoints; all require a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.With(middleware.RequestSize(limits.MaxReviewBody)).Post("/", h.Create)
		pr.With(middleware.RequestSize(limits.MaxReviewBody)).Put("/{id}", h.Update)
		pr.Get("/contractor/{id}", h.ListByContractor)
		pr.Get("/contractor/{id}/summary", h.Summary)
	})
	return r
}
