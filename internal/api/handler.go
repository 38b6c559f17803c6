package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

// SessionService defines the monitoring session operations exposed over HTTP
type SessionService interface {
	Start(endpointBase string) error
	Stop()
	Status() model.Status
	Samples() []model.Sample
	Events() []model.LogEntry
}

// Handler holds the HTTP handlers and dependencies
type Handler struct {
	session        SessionService
	hub            *Hub
	metricsHandler http.Handler
	logger         *slog.Logger
	basePath       string
}

// NewHandler creates a new HTTP handler
func NewHandler(session SessionService, hub *Hub, metricsHandler http.Handler, basePath string, logger *slog.Logger) *Handler {
	return &Handler{
		session:        session,
		hub:            hub,
		metricsHandler: metricsHandler,
		logger:         logger,
		basePath:       basePath,
	}
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(middleware.Recoverer)

	routesHandler := h.createRoutes()

	// If base path is configured, mount routes on that path
	if h.basePath != "" {
		r.Mount(h.basePath, routesHandler)
	} else {
		r.Mount("/", routesHandler)
	}

	return r
}

// createRoutes creates the API and UI routes
func (h *Handler) createRoutes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Session changes only accept JSON bodies
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/session/start", h.StartSession)
			r.Post("/session/stop", h.StopSession)
		})

		r.Get("/status", h.GetStatus)
		r.Get("/latency", h.GetLatency)
		r.Get("/events", h.GetEvents)
		r.Get("/ws", h.Subscribe)
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", h.metricsHandler)

	// Serve UI (must be last to act as catch-all)
	r.HandleFunc("/*", h.ServeUI())

	return r
}

// loggingMiddleware logs HTTP requests
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		next.ServeHTTP(w, r)
	})
}

// errorResponse represents an error response
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response",
			slog.String("error", err.Error()),
		)
	}
}

// respondError writes an error response
func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, errorResponse{Error: message})
}
