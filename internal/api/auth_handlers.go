package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipcutter/clipcutter/internal/auth"
	"github.com/clipcutter/clipcutter/internal/httputil"
	"github.com/clipcutter/clipcutter/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a user account. The first account becomes admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.config.AuthEnabled() {
		httputil.WriteError(w, http.StatusNotFound, "AUTH_DISABLED", "authentication is not enabled")
		return
	}

	var req credentialsRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "username required and password must be at least 8 characters")
		return
	}

	existing, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not check username")
		return
	}
	if existing != nil {
		httputil.WriteError(w, http.StatusConflict, "USERNAME_TAKEN", "username already exists")
		return
	}

	count, err := s.userRepo.Count()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not count users")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not hash password")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		IsAdmin:      count == 0,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not create user")
		return
	}

	token, err := auth.GenerateToken(s.config.JWTSecret, user.ID.String(), user.IsAdmin)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not issue token")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.config.AuthEnabled() {
		httputil.WriteError(w, http.StatusNotFound, "AUTH_DISABLED", "authentication is not enabled")
		return
	}

	var req credentialsRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	user, err := s.userRepo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "DB_ERROR", "could not look up user")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}

	token, err := auth.GenerateToken(s.config.JWTSecret, user.ID.String(), user.IsAdmin)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not issue token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
