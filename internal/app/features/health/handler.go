// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/idbridge/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks. Client is nil when the
// app runs on the in-memory directory; the check then skips the DB ping.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status    string `json:"status"`
	Directory string `json:"directory"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "directory":"connected" }   (or "memory")
//
// On DB failure: 503 and
//
//	{ "status":"error", "directory":"disconnected", "message":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.Client == nil {
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Directory: "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:    "error",
			Directory: "disconnected",
			Message:   "Directory database unavailable",
			Error:     err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Directory: "connected"})
}
