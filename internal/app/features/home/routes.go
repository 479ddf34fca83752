// internal/app/features/home/routes.go
package home

import "github.com/go-chi/chi/v5"

// MountRoutes registers the public pages on the root router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeIndex)
	r.Get("/index.html", h.ServeIndex)
	r.Get("/error", h.ServeError)
	r.Get("/favicon.ico", h.ServeFavicon)
}
