package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirychukyurii/adg-monitor/internal/monitor"
)

// startRequest is the body of POST /api/session/start
type startRequest struct {
	EndpointBase string `json:"endpoint_base"`
}

// StartSession handles POST /api/session/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.session.Start(req.EndpointBase); err != nil {
		switch {
		case errors.Is(err, monitor.ErrEndpointRequired),
			errors.Is(err, monitor.ErrInsecureEndpoint),
			errors.Is(err, monitor.ErrInvalidEndpoint):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, monitor.ErrSessionDisposed):
			h.respondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to start monitoring session",
				slog.String("error", err.Error()),
			)
			h.respondError(w, http.StatusInternalServerError, "failed to start monitoring session")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, h.session.Status())
}

// StopSession handles POST /api/session/stop
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	h.session.Stop()
	h.respondJSON(w, http.StatusOK, h.session.Status())
}
