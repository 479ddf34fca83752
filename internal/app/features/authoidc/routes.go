// internal/app/features/authoidc/routes.go
package authoidc

import "github.com/go-chi/chi/v5"

// Routes returns the OIDC login subrouter; mount under /auth/oidc.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}
