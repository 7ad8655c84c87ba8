// internal/app/features/consent/routes.go
package consent

import "github.com/go-chi/chi/v5"

// Routes mounts the consent endpoints. They are public; callers are told
// apart by the visitor cookie.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Post("/", h.Save)
	r.Delete("/", h.Reset)
	r.Post("/accept-all", h.AcceptAll)
	r.Post("/reject-all", h.RejectAll)
	r.Get("/theme", h.Theme)
	r.Put("/theme", h.SaveTheme)
	return r
}
