// internal/app/features/login/routes.go
package login

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// SessionRoutes mounts /session. signOut handles DELETE.
func SessionRoutes(h *Handler, signOut http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.CurrentSession)
	r.Post("/", h.CreateSession)
	r.Delete("/", signOut)
	return r
}

// AuthRoutes mounts the password recovery proxy, limited to perMinute
// requests per client IP.
func AuthRoutes(h *Handler, perMinute int) chi.Router {
	if perMinute <= 0 {
		perMinute = 10
	}
	r := chi.NewRouter()
	r.Use(httprate.Limit(perMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByRealIP)))
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	return r
}
