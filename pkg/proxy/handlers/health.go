package handlers

import (
	"net/http"

	"toolkit24/spark/pkg/kv"
	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	store     kv.Store
	providers []providers.Provider
	version   string
}

// NewHealthHandler creates a health handler. The provider list may be
// empty; only configured providers are reported.
func NewHealthHandler(store kv.Store, provs []providers.Provider, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		providers: provs,
		version:   version,
	}
}

// healthResponse is the body of both health endpoints.
type healthResponse struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version,omitempty"`
	Providers map[string]providerState `json:"providers,omitempty"`
}

type providerState struct {
	Healthy             bool  `json:"healthy"`
	ConsecutiveFailures int   `json:"consecutive_failures,omitempty"`
	TotalRequests       int64 `json:"total_requests"`
}

// Healthz reports process liveness. It always returns 200 while the
// process can serve requests at all.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSONResponse(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready reports readiness: the store must be reachable. Provider health
// is included as detail but does not fail readiness, since the AI route
// degrades independently.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ready",
		Version:   h.version,
		Providers: make(map[string]providerState, len(h.providers)),
	}

	for _, p := range h.providers {
		health := p.GetHealth()
		resp.Providers[p.GetName()] = providerState{
			Healthy:             health.IsHealthy,
			ConsecutiveFailures: health.ConsecutiveFailures,
			TotalRequests:       health.TotalRequests,
		}
	}

	if _, err := h.store.Len(); err != nil {
		resp.Status = "unavailable"
		proxy.WriteJSONResponse(w, http.StatusServiceUnavailable, resp)
		return
	}

	proxy.WriteJSONResponse(w, http.StatusOK, resp)
}
