/*
Package httpapi is the HTTP edge of the bot: the messaging provider POSTs
inbound events to /webhook, and replies go back out through an HTTP
dispatcher. It also exposes health, catalog reload and metrics endpoints.
*/
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/lumiflux/orderbot/internal/logging"
	"github.com/lumiflux/orderbot/pkg/domain"
)

// InboundHandler consumes one inbound event.
type InboundHandler interface {
	HandleInbound(ctx context.Context, msg domain.Inbound) error
}

// Reloader triggers an out-of-band catalog reload.
type Reloader interface {
	Reload()
}

// Server holds the HTTP handler dependencies.
type Server struct {
	handler  InboundHandler
	reloader Reloader
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts a metrics endpoint at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewRouter builds the chi router for the bot edge.
func NewRouter(handler InboundHandler, reloader Reloader, opts ...Option) http.Handler {
	s := &Server{
		handler:  handler,
		reloader: reloader,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/webhook", s.webhook)
	r.Post("/reload", s.reload)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	var msg domain.Inbound
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg.ConversationID == "" {
		http.Error(w, "conversationId is required", http.StatusBadRequest)
		return
	}
	msg.EventID = uuid.NewString()

	s.logger.Debug("Inbound event",
		"event_id", msg.EventID,
		"conversation_id", msg.ConversationID,
		"has_attachment", msg.HasAttachment,
	)

	if err := s.handler.HandleInbound(r.Context(), msg); err != nil {
		s.logger.Error("Failed to handle inbound event",
			"event_id", msg.EventID,
			"conversation_id", msg.ConversationID,
			"err", err,
		)
		http.Error(w, "failed to handle event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	s.reloader.Reload()
	w.WriteHeader(http.StatusAccepted)
}
