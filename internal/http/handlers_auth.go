package http

import (
	"net/http"

	"github.com/Bagiswari/finance-tracker/internal/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	user, token, err := s.deps.Auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		s.respondError(w, r, err, "Server error registering user.")
		return
	}

	s.respondMessage(w, http.StatusCreated, "Account created successfully.", map[string]any{
		"user":  toUserJSON(user),
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err, "Invalid request.")
		return
	}

	user, token, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err, "Server error logging in.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{
		"user":  toUserJSON(user),
		"token": token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err, "Not authenticated.")
		return
	}

	user, err := s.deps.Auth.Profile(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err, "User not found.")
		return
	}

	s.respondData(w, http.StatusOK, map[string]any{"user": toUserJSON(user)})
}
