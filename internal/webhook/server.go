// Package webhook receives chat messages from the chat bridge over HTTP.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/models"
	"scoresheet/ingestion/internal/pipeline"
)

// SecretHeader carries the shared webhook secret
const SecretHeader = "X-Webhook-Secret"

const maxBodyBytes = 1 << 20

// Processor runs an update cycle for one message
type Processor interface {
	Process(ctx context.Context, msg models.InboundMessage) (*models.CycleResult, error)
}

// Config holds the webhook settings
type Config struct {
	Port     int
	Secret   string // empty disables the secret check
	ChatName string // only messages from this chat are processed; empty accepts all
}

// Server is the webhook HTTP server
type Server struct {
	cfg        Config
	processor  Processor
	httpServer *http.Server
}

// NewServer creates the webhook server and its routes
func NewServer(cfg Config, processor Processor) *Server {
	s := &Server{cfg: cfg, processor: processor}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.requireSecret).Post("/messages", s.handleMessage)
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("Webhook server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve webhook: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{Status: "healthy"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var msg models.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request body",
			Fields: FormatValidationError(err),
		})
		return
	}

	if err := validate.Struct(msg); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: FormatValidationError(err),
		})
		return
	}

	if s.cfg.ChatName != "" && strings.TrimSpace(msg.ChatName) != strings.TrimSpace(s.cfg.ChatName) {
		log.Debug().
			Str("message_id", msg.MessageID).
			Str("chat", msg.ChatName).
			Msg("Message from another chat, ignoring")
		respondJSON(w, http.StatusAccepted, StatusResponse{Status: "ignored"})
		return
	}

	result, err := s.processor.Process(r.Context(), msg)
	if errors.Is(err, pipeline.ErrDuplicate) {
		respondJSON(w, http.StatusOK, StatusResponse{Status: "duplicate"})
		return
	}
	if err != nil {
		metrics.RecordError("webhook", "cycle")
		log.Error().
			Err(err).
			Str("message_id", msg.MessageID).
			Msg("Update cycle failed")
		respondError(w, http.StatusBadGateway, "Update cycle failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Secret != "" {
			got := r.Header.Get(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Secret)) != 1 {
				log.Warn().
					Str("remote_addr", r.RemoteAddr).
					Msg("Rejected webhook call with bad secret")
				respondError(w, http.StatusUnauthorized, "Invalid webhook secret")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Msg("Webhook request")
	})
}
