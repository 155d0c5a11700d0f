package handlers

import (
	"context"
	"net/http"
	"time"

	"finitefield.org/heritage-web/internal/platform/httpx"
	"finitefield.org/heritage-web/internal/services"
)

// CatalogStatsFunc reports the size of the loaded catalog.
type CatalogStatsFunc func(ctx context.Context) services.CatalogStats

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	started time.Time
	clock   func() time.Time
	stats   CatalogStatsFunc
}

// HealthOption customises HealthHandlers.
type HealthOption func(*HealthHandlers)

// WithHealthClock overrides the clock used for uptime and timestamps.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithHealthStartedAt sets the process start time reported as uptime.
func WithHealthStartedAt(started time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.started = started
	}
}

// WithHealthCatalogStats wires the catalog size probe used by /readyz.
func WithHealthCatalogStats(fn CatalogStatsFunc) HealthOption {
	return func(h *HealthHandlers) {
		h.stats = fn
	}
}

// NewHealthHandlers constructs health handlers.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.started.IsZero() {
		h.started = h.clock()
	}
	return h
}

type healthPayload struct {
	Status    string                 `json:"status"`
	Uptime    string                 `json:"uptime"`
	Timestamp string                 `json:"timestamp"`
	Catalog   *services.CatalogStats `json:"catalog,omitempty"`
}

func (h *HealthHandlers) payload(status string) healthPayload {
	now := h.clock()
	return healthPayload{
		Status:    status,
		Uptime:    now.Sub(h.started).Round(time.Second).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.payload("ok"))
}

// Readyz reports whether the catalog is loaded.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		httpx.WriteJSON(w, http.StatusOK, h.payload("ok"))
		return
	}

	stats := h.stats(r.Context())
	payload := h.payload("ok")
	payload.Catalog = &stats
	status := http.StatusOK
	if stats.Items == 0 {
		payload.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, payload)
}
