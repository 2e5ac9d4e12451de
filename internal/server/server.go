// Package server exposes the pipeline over a small HTTP API.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"flarerag/internal/service"
)

// ChatService is the pipeline surface the HTTP layer needs.
type ChatService interface {
	Chat(ctx context.Context, query string) (*service.ChatResult, error)
}

// Appender is the incremental single-document ingestion surface.
type Appender interface {
	AppendDocument(ctx context.Context, content string, metadata map[string]any) error
}

// Server routes chat and ingestion requests to the pipeline.
type Server struct {
	chat     ChatService
	appender Appender
	log      zerolog.Logger
	router   chi.Router
}

func New(chat ChatService, appender Appender, corsOrigins []string, log zerolog.Logger) *Server {
	s := &Server{
		chat:     chat,
		appender: appender,
		log:      log.With().Str("component", "server").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Get("/healthz", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/documents", s.handleAppendDocument)
	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler { return s.router }

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Classification string `json:"classification"`
	Response       string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	result, err := s.chat.Chat(r.Context(), req.Message)
	if err != nil {
		// Transport and configuration failures must surface as a
		// distinguishable failure, never as a blank answer.
		s.log.Error().Err(err).Msg("chat pipeline failed")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Classification: result.Classification,
		Response:       result.Response,
	})
}

type appendRequest struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleAppendDocument(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is required"})
		return
	}
	if err := s.appender.AppendDocument(r.Context(), req.Content, req.Metadata); err != nil {
		s.log.Error().Err(err).Msg("append document failed")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "stored"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
