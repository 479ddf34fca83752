// internal/app/features/stuff/handler.go
package stuff

import (
	"encoding/json"
	"net/http"

	stuffstore "github.com/dalemusser/idbridge/internal/app/store/stuff"
	"github.com/dalemusser/idbridge/internal/app/system/auth"
	"github.com/dalemusser/idbridge/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the per-user stuff records. Provider authentication is not
// enough here: a caller without a reconciled local account gets 403, since
// records are keyed by local user id.
type Handler struct {
	Log   *zap.Logger
	Store *stuffstore.Store
}

// NewHandler creates a stuff handler over the given store.
func NewHandler(store *stuffstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Store: store}
}

// ServeList handles GET /api/stuff.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := localUser(w, r)
	if !ok {
		return
	}

	records := h.Store.ListByUser(r.Context(), user.AppUserID)
	writeJSON(w, http.StatusOK, records)
}

// ServeCreate handles POST /api/stuff. The body is a JSON array of strings;
// each becomes a record owned by the caller. Responds 201 with the caller's
// full record list.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := localUser(w, r)
	if !ok {
		return
	}

	var values []string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		h.Log.Warn("stuff: bad request body", zap.Error(err))
		http.Error(w, "expected a JSON array of strings", http.StatusBadRequest)
		return
	}

	records := h.Store.Add(r.Context(), user.AppUserID, values)
	writeJSON(w, http.StatusCreated, records)
}

// localUser resolves the caller's reconciled local user, writing 401/403 and
// returning false when there isn't one.
func localUser(w http.ResponseWriter, r *http.Request) (models.AppUser, bool) {
	principal, ok := auth.CurrentPrincipal(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return models.AppUser{}, false
	}

	appUser, ok := principal.LocalUser()
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return models.AppUser{}, false
	}
	return appUser, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
