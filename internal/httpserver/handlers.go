package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodthings/server/internal/domain"
	"github.com/goodthings/server/internal/service"
)

// tokenRes is the success payload for register and login.
type tokenRes struct {
	Token string `json:"token"`
}

// decodeBody parses a JSON request body into dst, folding malformed bodies
// into the validation branch of the error contract.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: request body must be valid JSON", domain.ErrValidation)
	}
	return nil
}

// handleRegister creates an account and answers 201 with a fresh token.
// The response never carries the password or its hash.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var p service.RegisterParams
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	token, _, err := s.users.Register(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenRes{Token: token})
}

// handleLogin verifies credentials and answers 200 with a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p service.LoginParams
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := s.users.Login(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenRes{Token: token})
}

// handleWhoAmI returns the account behind the verified token.
func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorRes{Error: "invalid authentication token"})
		return
	}
	u, err := s.users.WhoAmI(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleUpdateProfile mutates name and/or password of the caller's account.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorRes{Error: "invalid authentication token"})
		return
	}
	var p service.UpdateParams
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.users.UpdateProfile(r.Context(), id.UserID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCreatePost persists a new post owned by the caller.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorRes{Error: "invalid authentication token"})
		return
	}
	var p service.CreatePostParams
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	post, err := s.posts.Create(r.Context(), id.UserID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// handleListPosts returns all posts, newest first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleGetPost returns one post by id.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
