package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/worldcup-api/apiserver/internal/auth"
	"github.com/worldcup-api/apiserver/internal/services"
	"github.com/worldcup-api/apiserver/types"
)

const (
	msgDuplicateUser       = "User with this email already exists."
	msgInvalidCredentials  = "Invalid email or password."
	msgInvalidRefreshToken = "Invalid refresh token."
	msgMissingFields       = "Email, password and name are required."
	msgInvalidRequest      = "Invalid request body."
	msgInternal            = "Internal server error."
)

// AuthHandler exposes registration, login and token renewal.
type AuthHandler struct {
	authService *services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(authService *services.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, logger: logger}
}

// AuthRouter registers auth routes on the given router. gate protects /me.
func AuthRouter(r chi.Router, authService *services.AuthService, gate func(http.Handler) http.Handler, logger *slog.Logger) {
	handler := NewAuthHandler(authService, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/refresh-token", handler.Refresh)
	r.With(gate).Get("/me", handler.Me)
}

// Register creates a new account and answers with its first token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	resp, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUser) {
			writeMessage(w, http.StatusBadRequest, msgDuplicateUser)
			return
		}
		h.logger.ErrorContext(r.Context(), "register failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login verifies credentials and answers with a new token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, TokenEnvelope[types.AuthResponse]{Token: resp})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	resp, err := h.authService.RefreshAccessToken(r.Context(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			writeMessage(w, http.StatusUnauthorized, msgInvalidRefreshToken)
			return
		}
		h.logger.ErrorContext(r.Context(), "refresh failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, TokenEnvelope[types.AccessTokenResponse]{Token: resp})
}

// Me returns the identity bound to the request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgNoToken)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenEnvelope wraps login and refresh results under "token".
type TokenEnvelope[T any] struct {
	Token T `json:"token"`
}
