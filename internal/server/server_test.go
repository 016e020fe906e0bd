package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/danielpatrickdp/farmsense/go-platform/internal/audit"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/engine"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/platform"
	"github.com/danielpatrickdp/farmsense/go-platform/internal/thresholds"
)

func newTestRouter(t *testing.T) (*gin.Engine, *platform.Platform) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := engine.NewRegistry(thresholds.Default())
	p := platform.New(registry, audit.NewMemStore(), nil, nil)
	return New(p, nil).Router(), p
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.Bytes())
	}
	return doc
}

func TestRecommendationEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/recommendation", map[string]any{
		"domain": "irrigation",
		"inputs": map[string]any{"awc": 20.0},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", w.Code, w.Body.Bytes())
	}

	doc := decodeBody(t, w)
	if doc["domain"] != "IRRIGATION" {
		t.Fatalf("domain: %v", doc["domain"])
	}
	if doc["base_recommendation"] != "NOW" {
		t.Fatalf("base: %v", doc["base_recommendation"])
	}
	if doc["urgency_level"] != "CRITICAL" {
		t.Fatalf("urgency: %v", doc["urgency_level"])
	}
	if doc["requires_human_confirmation"] != true {
		t.Fatal("emergency must require confirmation")
	}
	if doc["audit_log_id"] == "" || doc["audit_log_id"] == nil {
		t.Fatal("audit id missing from response")
	}
}

func TestRecommendationUnknownDomain(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/recommendation", map[string]any{
		"domain": "weather",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400, got %d", w.Code)
	}
	doc := decodeBody(t, w)
	if doc["error"] == nil || doc["timestamp"] == nil {
		t.Fatalf("error payload must carry error and timestamp: %s", w.Body.Bytes())
	}
}

func TestRecommendationBadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/recommendation", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: want 400, got %d", w.Code)
	}

	// Missing required domain field.
	w = doJSON(t, router, http.MethodPost, "/recommendation", map[string]any{
		"inputs": map[string]any{"awc": 20.0},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing domain: want 400, got %d", w.Code)
	}
}

func TestBatchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/recommendations/batch", map[string]any{
		"all_inputs": map[string]any{
			"irrigation": map[string]any{"awc": 50.0},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	doc := decodeBody(t, w)
	if len(doc) != len(engine.Domains) {
		t.Fatalf("batch must cover all %d domains, got %d", len(engine.Domains), len(doc))
	}
	irrigation, ok := doc["irrigation"].(map[string]any)
	if !ok {
		t.Fatalf("irrigation entry missing: %v", doc)
	}
	if irrigation["base_recommendation"] != "NOW" {
		t.Fatalf("irrigation verdict: %v", irrigation["base_recommendation"])
	}
}

func TestConfirmEmergencyEndpoint(t *testing.T) {
	router, p := newTestRouter(t)
	view, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": 20.0})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/confirm_emergency/"+view.Record.AuditLogID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", w.Code, w.Body.Bytes())
	}
	doc := decodeBody(t, w)
	if doc["status"] != "CONFIRMED" {
		t.Fatalf("status field: %v", doc["status"])
	}
}

func TestConfirmEmergencyUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/confirm_emergency/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want 404, got %d", w.Code)
	}
}

func TestReconstructEndpoint(t *testing.T) {
	router, p := newTestRouter(t)
	view, err := p.GetRecommendation("warehousing", engine.Inputs{"storage_temp": 12.0})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/reconstruct/"+view.Record.AuditLogID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", w.Code, w.Body.Bytes())
	}
	doc := decodeBody(t, w)
	if doc["match"] != true {
		t.Fatalf("replay must match: %s", w.Body.Bytes())
	}

	w = doJSON(t, router, http.MethodGet, "/reconstruct/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: want 404, got %d", w.Code)
	}
}

func TestKPIsEndpoint(t *testing.T) {
	router, p := newTestRouter(t)
	for _, awc := range []float64{50.0, 30.0, 10.0} {
		if _, err := p.GetRecommendation("irrigation", engine.Inputs{"awc": awc}); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/kpis?domain=irrigation", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	doc := decodeBody(t, w)
	if doc["water_efficiency"] != 30.0 {
		t.Fatalf("water_efficiency: want 30, got %v", doc["water_efficiency"])
	}
}

func TestRootEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
}
