// internal/app/features/userapi/handler.go
package userapi

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/idbridge/internal/app/identity"
	"github.com/dalemusser/idbridge/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the /api/user endpoints for authenticated sessions.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

// NewHandler creates a userapi handler.
func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, SessionMgr: sessionMgr}
}

// ServeRawOAuth handles GET /api/user/oauth.
//
// Returning the whole attribute bag can reveal more than a browser client
// should see; this endpoint exists for parity with the reference frontend,
// not as an integration surface.
func (h *Handler) ServeRawOAuth(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, principal.RawAttributes())
}

// ServeRawOIDC handles GET /api/user/oidc. Only an OIDC-produced principal
// has verified claims and an ID token; anything else is 404.
func (h *Handler) ServeRawOIDC(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	oidcPrincipal, ok := principal.(*identity.OIDCPrincipal)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claims":   oidcPrincipal.RawAttributes(),
		"id_token": oidcPrincipal.RawIDToken(),
	})
}

// ServeLocalUser handles GET /api/user: the reconciled local fields, or 404
// when the provider-authenticated user has no local account.
func (h *Handler) ServeLocalUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, ok := principal.LocalUser()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ServeName handles GET /api/user/name: the display name from the raw
// provider identity, whether or not a local account matched.
func (h *Handler) ServeName(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"name": principal.RawAttributes()["name"]})
}

// ServeLogout handles DELETE /api/user/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.Invalidate(w, r); err != nil {
		h.Log.Error("logout: session invalidation failed", zap.Error(err))
		http.Error(w, "logout failed", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
