// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification endpoints. Every route is scoped to the
// signed-in caller.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.List)
		pr.Post("/", h.Create)
		pr.Get("/unread-count", h.UnreadCount)
		pr.Put("/read-all", h.MarkAllRead)
		pr.Post("/bulk-delete", h.BulkDelete)
		pr.Put("/{id}/read", h.MarkRead)
		pr.Delete("/{id}", h.Delete)
	})
	return r
}
