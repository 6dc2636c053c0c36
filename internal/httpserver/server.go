// HTTP wiring for the GoodThings API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", register, login.
//   - Gated endpoints (require a verified token): whoami, profile update,
//     post create/list/get.
//
// Notes:
//   - The token travels in a single custom header (see TokenHeader).
//   - The auth middleware only verifies the token; whether the account still
//     exists is the concern of the handlers behind it.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goodthings/server/internal/auth"
	"github.com/goodthings/server/internal/service"
)

// Server bundles the router with the services and verifier it dispatches to.
type Server struct {
	r        *chi.Mux
	users    *service.UserService
	posts    *service.PostService
	verifier *auth.TokenVerifier
}

// New constructs a Server, installs middleware, and registers routes.
// clientOrigin is the single origin allowed by CORS.
func New(users *service.UserService, posts *service.PostService, verifier *auth.TokenVerifier, clientOrigin string) *Server {
	s := &Server{r: chi.NewRouter(), users: users, posts: posts, verifier: verifier}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(clientOrigin))

	// --- public ---
	s.r.Get("/", s.handleWelcome)
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Post("/api/users", s.handleRegister)
	s.r.Post("/api/auth", s.handleLogin)

	// --- gated ---
	s.r.Group(func(g chi.Router) {
		g.Use(s.requireAuth)
		g.Get("/api/auth", s.handleWhoAmI)
		g.Put("/api/users/me", s.handleUpdateProfile)
		g.Post("/api/posts", s.handleCreatePost)
		g.Get("/api/posts", s.handleListPosts)
		g.Get("/api/posts/{id}", s.handleGetPost)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not found: " + r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleWelcome answers the root endpoint with a small service banner.
func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the API",
		"data": map[string]string{
			"info":    "This is the root API endpoint",
			"version": "1.0.0",
		},
	})
}
