// Package server exposes the conversational agent over HTTP. Each
// conversation id maps to its own dispatch loop and session store, so
// concurrent conversations never share mutable state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-advisor/internal/agent"
)

// LoopFactory builds a fresh dispatch loop (with its own session store and
// backend conversation) for a new conversation id.
type LoopFactory func() (*agent.Loop, error)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the HTTP front end for the agent.
type Server struct {
	httpServer *http.Server
	factory    LoopFactory
	logger     *zap.Logger
	validator  *validator.Validate

	mu            sync.Mutex
	conversations map[string]*conversation
}

// conversation serializes turns for one conversation id. The inner mutex
// enforces the single-writer model the session store assumes.
type conversation struct {
	mu   sync.Mutex
	loop *agent.Loop
}

// New creates a server instance.
func New(cfg Config, factory LoopFactory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		factory:       factory,
		logger:        logger,
		validator:     validator.New(),
		conversations: make(map[string]*conversation),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 330 * time.Second, // a turn may run the full dispatch budget
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" validate:"required,min=1"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	conv, err := s.conversation(req.ConversationID)
	if err != nil {
		s.logger.Error("failed to start conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start conversation")
		return
	}

	conv.mu.Lock()
	reply := conv.loop.Run(r.Context(), req.Message)
	conv.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: req.ConversationID,
		Reply:          reply,
	})
}

type resetRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	s.mu.Lock()
	delete(s.conversations, req.ConversationID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) conversation(id string) (*conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok {
		return conv, nil
	}
	loop, err := s.factory()
	if err != nil {
		return nil, err
	}
	conv := &conversation{loop: loop}
	s.conversations[id] = conv
	return conv, nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func validationMessage(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var parts []string
		for _, fieldErr := range validationErrors {
			parts = append(parts, fmt.Sprintf("field %s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return strings.Join(parts, "; ")
	}
	return "invalid request"
}
