package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/danielpatrickdp/persona-harness/internal/bus"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
)

// #region server

// Server exposes classification, scoring, prompt composition and the
// streaming chat endpoint over HTTP.
type Server struct {
	router  *chi.Mux
	handler http.Handler
	port    int
	orch    *orchestrator.Orchestrator
	pub     bus.Publisher
}

// NewServer wires routes and middleware. A nil publisher drops verdict events.
func NewServer(port int, orch *orchestrator.Orchestrator, pub bus.Publisher, corsOrigins []string) *Server {
	if pub == nil {
		pub = bus.Nop{}
	}
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		orch:   orch,
		pub:    pub,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", s.classify)
		r.Post("/score", s.score)
		r.Post("/prompt", s.prompt)
		r.Get("/stats", s.stats)
	})
	router.Post("/api/chat", s.chat)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	return s
}

// Handler returns the router wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured port until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[API] server starting on %s", addr)
	return http.ListenAndServe(addr, s.handler)
}

// #endregion server

// #region responses

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

const (
	errInvalidRequest = "invalid request"
	errGenerate       = "Failed to generate response"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// #endregion responses
