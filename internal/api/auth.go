package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/gestextintor/internal/auth"
	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/session"
	"github.com/erazemk/gestextintor/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	OnLogout  func(userID string)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string         `json:"token"`
	Identity model.Identity `json:"identity"`
}

type recoverRequest struct {
	Username string `json:"username"`
}

type recoverResponse struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gate := session.New(h.Store)
	id, err := gate.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, *id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", id.Username, "role", id.Role)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Identity: *id})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req session.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gate := session.New(h.Store)
	gate.SetMode(session.ModeRegister)
	err := gate.Register(r.Context(), req)
	switch {
	case errors.Is(err, session.ErrMissingFields):
		jsonError(w, http.StatusBadRequest, "name, username and password required")
		return
	case errors.Is(err, session.ErrPasswordMismatch):
		jsonError(w, http.StatusBadRequest, "passwords do not match")
		return
	case errors.Is(err, store.ErrDuplicateUsername):
		jsonError(w, http.StatusConflict, "username already exists")
		return
	case err != nil:
		slog.Error("registration failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user registered", "user", req.Username)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "user registered"})
}

// Recover handles POST /api/auth/recover. It discloses the stored password.
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gate := session.New(h.Store)
	gate.SetMode(session.ModeRecovery)
	password, err := gate.Recover(r.Context(), req.Username)
	if errors.Is(err, session.ErrUserNotFound) {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		slog.Error("recovery lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Warn("password recovered", "user", req.Username, "remote", r.RemoteAddr)
	jsonResponse(w, http.StatusOK, recoverResponse{Password: password})
}

// Logout handles POST /api/auth/logout by revoking the current token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.Store.RevokeToken(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.OnLogout != nil {
		h.OnLogout(claims.UserID)
	}

	slog.Info("user logged out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
