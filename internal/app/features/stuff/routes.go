// internal/app/features/stuff/routes.go
package stuff

import "github.com/go-chi/chi/v5"

// Routes returns the stuff subrouter; mount under /api/stuff behind the
// principal-requiring middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	return r
}
