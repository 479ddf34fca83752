// internal/app/features/home/handler.go
package home

import (
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
)

// Handler serves the public pages: the SPA shell, the error page, and the
// favicon. These are the only documents reachable without a session.
type Handler struct {
	Log       *zap.Logger
	PublicDir string
}

// NewHandler creates a home handler serving files from publicDir.
func NewHandler(publicDir string, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, PublicDir: publicDir}
}

// ServeIndex handles GET / and GET /index.html.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.PublicDir, "index.html"))
}

// ServeError handles GET /error, the login-failure landing page.
func (h *Handler) ServeError(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.PublicDir, "error.html"))
}

// ServeFavicon handles GET /favicon.ico.
func (h *Handler) ServeFavicon(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.PublicDir, "favicon.ico"))
}
