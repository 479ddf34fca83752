package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/idbridge/internal/app/features/health"
	"go.uber.org/zap"
)

func TestServe_MemoryDirectory(t *testing.T) {
	h := health.NewHandler(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var body struct {
		Status    string `json:"status"`
		Directory string `json:"directory"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Directory != "memory" {
		t.Errorf("unexpected body: %+v", body)
	}
}
