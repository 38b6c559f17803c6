package api

import (
	"net/http"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// GetStatus handles GET /api/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Status())
}

// GetLatency handles GET /api/latency
func (h *Handler) GetLatency(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Samples())
}

// GetEvents handles GET /api/events
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Events())
}

// Subscribe handles GET /api/ws.
// The current state is sent first, then every update as it happens.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r,
		model.Update{Type: model.UpdateSession, Payload: h.session.Status()},
		model.Update{Type: model.UpdateLatency, Payload: h.session.Samples()},
	)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
