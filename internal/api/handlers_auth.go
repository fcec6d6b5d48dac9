package api

import (
	"errors"
	"net/http"

	"github.com/moviecrate/moviecrate/internal/auth"
	"github.com/moviecrate/moviecrate/internal/httputil"
	"github.com/moviecrate/moviecrate/internal/models"
	"github.com/moviecrate/moviecrate/internal/repository"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := make(map[string]string)
	if req.Username == "" {
		fields["username"] = "this field is required"
	}
	if req.Password == "" {
		fields["password"] = "this field is required"
	}
	if len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			httputil.WriteValidationError(w, map[string]string{
				"username": "already taken",
			})
			return
		}
		s.log.Error().Err(err).Msg("failed to create user")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "user created successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := make(map[string]string)
	if req.Username == "" {
		fields["username"] = "this field is required"
	}
	if req.Password == "" {
		fields["password"] = "this field is required"
	}
	if len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.log.Error().Err(err).Msg("failed to look up user")
		httputil.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue tokens")
		httputil.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Refresh == "" {
		httputil.WriteValidationError(w, map[string]string{
			"refresh": "this field is required",
		})
		return
	}

	access, err := s.tokens.Refresh(req.Refresh)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"access": access,
	})
}
