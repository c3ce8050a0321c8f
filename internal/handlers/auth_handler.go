package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
	log  logrus.FieldLogger
}

func NewAuthHandler(auth *service.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.WithError(err).Error("login failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		User:      req.Username,
		ExpiresAt: expiresAt,
	})
}

// Status answers whether the presented token is still valid. Unlike
// the protected routes it never 401s; an absent or dead token is just
// authenticated=false.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		respondJSON(w, http.StatusOK, models.AuthStatusResponse{})
		return
	}

	claims, err := h.auth.Validate(r.Context(), token)
	if err != nil {
		respondJSON(w, http.StatusOK, models.AuthStatusResponse{})
		return
	}

	respondJSON(w, http.StatusOK, models.AuthStatusResponse{
		Authenticated: true,
		User:          claims.UserID,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		respondError(w, http.StatusBadRequest, "no token to revoke")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		h.log.WithError(err).Error("logout failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
