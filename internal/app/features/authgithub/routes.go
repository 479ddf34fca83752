// internal/app/features/authgithub/routes.go
package authgithub

import "github.com/go-chi/chi/v5"

// Routes returns the GitHub login subrouter; mount under /auth/github.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}
