// internal/app/features/userapi/routes.go
package userapi

import "github.com/go-chi/chi/v5"

// Routes returns the user API subrouter; mount under /api/user behind the
// principal-requiring middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLocalUser)
	r.Get("/oauth", h.ServeRawOAuth)
	r.Get("/oidc", h.ServeRawOIDC)
	r.Get("/name", h.ServeName)
	r.Delete("/logout", h.ServeLogout)
	return r
}
