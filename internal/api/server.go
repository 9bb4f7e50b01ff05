package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fairental/fairbot/internal/chat"
	"github.com/fairental/fairbot/internal/correction"
	"github.com/fairental/fairbot/internal/event"
)

// EventReader is the read side of the store the history endpoints need.
type EventReader interface {
	ListAll(ctx context.Context, limit int) ([]event.Event, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]event.Event, error)
}

type Server struct {
	router      *chi.Mux
	srv         *http.Server
	chat        *chat.Service
	corrections *correction.Service
	events      EventReader
	logger      *slog.Logger
}

func NewServer(port int, apiToken string, chatSvc *chat.Service, corrSvc *correction.Service, events EventReader, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware)

	s := &Server{
		router:      router,
		chat:        chatSvc,
		corrections: corrSvc,
		events:      events,
		logger:      logger,
	}
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	router.Get("/health", s.health)
	router.Post("/chat", s.handleChat)
	router.Route("/admin", func(r chi.Router) {
		r.Use(bearerAuth(apiToken))
		r.Post("/correct", s.handleCorrect)
		r.Get("/history", s.handleHistory)
		r.Get("/history/export", s.handleHistoryExport)
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// corsMiddleware mirrors the headers the widget frontend already expects.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerAuth protects the admin surface. An empty configured token
// disables the check (local development).
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				respondJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
