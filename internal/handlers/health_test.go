package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finitefield.org/heritage-web/internal/services"
)

func TestHealthHandlersHealthz(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Second)
	handlers := NewHealthHandlers(
		WithHealthStartedAt(start),
		WithHealthClock(func() time.Time { return now }),
	)

	rr := httptest.NewRecorder()
	handlers.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if body["uptime"] != "1m30s" {
		t.Fatalf("expected uptime 1m30s, got %v", body["uptime"])
	}
	if body["timestamp"] != "2024-01-01T00:01:30Z" {
		t.Fatalf("unexpected timestamp %v", body["timestamp"])
	}
	if _, ok := body["catalog"]; ok {
		t.Fatalf("healthz should not report catalog stats")
	}
}

func TestHealthHandlersReadyzReportsCatalog(t *testing.T) {
	handlers := NewHealthHandlers(WithHealthCatalogStats(func(context.Context) services.CatalogStats {
		return services.CatalogStats{Items: 20, Regions: 5}
	}))

	rr := httptest.NewRecorder()
	handlers.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body struct {
		Status  string                `json:"status"`
		Catalog services.CatalogStats `json:"catalog"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Status != "ok" || body.Catalog.Items != 20 || body.Catalog.Regions != 5 {
		t.Fatalf("unexpected readiness payload %+v", body)
	}
}

func TestHealthHandlersReadyzEmptyCatalog(t *testing.T) {
	handlers := NewHealthHandlers(WithHealthCatalogStats(func(context.Context) services.CatalogStats {
		return services.CatalogStats{}
	}))

	rr := httptest.NewRecorder()
	handlers.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}
