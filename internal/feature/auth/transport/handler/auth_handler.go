// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/auth/domain/entity"
	"trading_backend/internal/feature/auth/usecase"
	"trading_backend/internal/platform/token"
)

// AuthUsecase is the credential and token service consumed by this
// handler. The interface is defined here, by the consumer.
type AuthUsecase interface {
	Signup(ctx context.Context, email, username, fullName, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*usecase.Token, error)
	Refresh(ctx context.Context, userID uint) (*usecase.Token, error)
	Deactivate(ctx context.Context, userID uint) error
}

// AuthHandler handles the /auth endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates the handler with its usecase injected.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /auth/signup and returns the created user with 201.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Username, req.FullName, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeAuthError(c, err)
		return
	}

	slog.Info("user signup successful", "email", user.Email, "user_id", user.ID)
	c.JSON(http.StatusCreated, api.NewUserResponse(user))
}

// Login handles POST /auth/login. Failures are reported with one generic
// message regardless of whether the email exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	tok, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeAuthError(c, err)
		return
	}

	slog.Info("user login successful", "email", tok.User.Email, "user_id", tok.User.ID)
	c.JSON(http.StatusOK, tokenResponse(tok))
}

// Me handles GET /auth/me and returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := token.CurrentUser(c)
	c.JSON(http.StatusOK, api.NewUserResponse(user))
}

// Logout handles POST /auth/logout. Logout is client-side only: there is
// no revocation store, so a previously issued token stays valid until its
// natural expiry. Known limitation of this system, kept deliberately.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := token.CurrentUser(c)
	slog.Info("user logout", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "successfully logged out user: " + user.Username,
		Success: true,
		Data:    map[string]any{"user_id": user.ID},
	})
}

// Refresh handles POST /auth/refresh-token and issues a fresh token for
// the already authenticated user.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := token.CurrentUserID(c)

	tok, err := h.auth.Refresh(c.Request.Context(), userID)
	if err != nil {
		slog.Error("token refresh failed", "error", err, "user_id", userID)
		writeAuthError(c, err)
		return
	}

	slog.Info("token refreshed", "user_id", userID)
	c.JSON(http.StatusOK, tokenResponse(tok))
}

// VerifyToken handles POST /auth/verify-token. Reaching this handler at
// all means the middleware accepted the token, so it just echoes the user.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	user := token.CurrentUser(c)
	c.JSON(http.StatusOK, api.NewUserResponse(user))
}

// DeactivateMe handles POST /auth/users/me/deactivate (soft delete of the
// caller's own account).
func (h *AuthHandler) DeactivateMe(c *gin.Context) {
	user := token.CurrentUser(c)

	if err := h.auth.Deactivate(c.Request.Context(), user.ID); err != nil {
		slog.Error("account deactivation failed", "error", err, "user_id", user.ID)
		writeAuthError(c, err)
		return
	}

	slog.Info("account deactivated", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "account deactivated successfully",
		Success: true,
		Data:    map[string]any{"user_id": user.ID},
	})
}

// tokenResponse converts a usecase token into its wire shape.
func tokenResponse(tok *usecase.Token) api.TokenResponse {
	return api.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
		User:        api.NewUserResponse(tok.User),
	}
}

// writeAuthError translates auth domain errors into the HTTP envelope.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, api.Error(err.Error()))
	case errors.Is(err, usecase.ErrEmailTaken), errors.Is(err, usecase.ErrUsernameTaken):
		c.JSON(http.StatusConflict, api.Error(err.Error()))
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, api.Error(usecase.ErrInvalidCredentials.Error()))
	case errors.Is(err, usecase.ErrAccountDeactivated):
		c.JSON(http.StatusBadRequest, api.Error("account is deactivated. please contact support"))
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
	}
}
