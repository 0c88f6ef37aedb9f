package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	ready atomic.Bool
	info  atomic.Pointer[map[string]any]
}

// New returns a health handler instance.
func New() *Handler {
	return &Handler{}
}

// SetReady marks the handler as ready.
func (h *Handler) SetReady() {
	h.ready.Store(true)
}

// SetNotReady marks the handler as not ready.
func (h *Handler) SetNotReady() {
	h.ready.Store(false)
}

// SetInfo attaches static details, such as loaded tool counts, to readiness responses.
func (h *Handler) SetInfo(info map[string]any) {
	copied := make(map[string]any, len(info))
	for key, value := range info {
		copied[key] = value
	}
	h.info.Store(&copied)
}

// Healthz handles liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz handles readiness probes.
func (h *Handler) Readyz(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{}
	if info := h.info.Load(); info != nil {
		for key, value := range *info {
			body[key] = value
		}
	}

	status := http.StatusOK
	body["status"] = "ready"
	if !h.ready.Load() {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
